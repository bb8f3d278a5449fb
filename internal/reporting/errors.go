package reporting

import (
	"errors"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/journal"
	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/statements"
)

// ErrUnknownAccountType is returned for a tree request naming an unknown type.
var ErrUnknownAccountType = errors.New("unknown account type")

// IsInputError reports whether err was caused by the caller's data rather
// than the workspace or the server.
func IsInputError(err error) bool {
	var (
		dateErr   *model.InvalidDateError
		amountErr *model.InvalidAmountError
		cycleErr  *accounts.CyclicHierarchyError
		ruleErr   journal.ValidationError
	)
	switch {
	case errors.As(err, &dateErr),
		errors.As(err, &amountErr),
		errors.As(err, &cycleErr),
		errors.As(err, &ruleErr),
		errors.Is(err, accounts.ErrDuplicateAccount),
		errors.Is(err, statements.ErrInvalidDateRange),
		errors.Is(err, ErrUnknownAccountType):
		return true
	}
	return false
}
