package accounts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateAccount is returned when two accounts share an ID.
var ErrDuplicateAccount = errors.New("duplicate account id")

// CyclicHierarchyError reports a parent/child loop in the chart of accounts.
type CyclicHierarchyError struct {
	Cycle []string // account IDs in parent order, first repeated at the end
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("cyclic account hierarchy: %s", strings.Join(e.Cycle, " -> "))
}
