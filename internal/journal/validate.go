package journal

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/reports/internal/model"
)

// Validation rule names.
const (
	RuleMissingID       = "missing_id"
	RuleDuplicateID     = "duplicate_id"
	RuleMissingDate     = "missing_date"
	RuleMissingAccount  = "missing_account"
	RuleMissingCurrency = "missing_currency"
	RuleExchangeRate    = "exchange_rate"
	RuleBaseAmount      = "base_amount"
	RuleUnknownAccount  = "unknown_account"
	RuleArchivedAccount = "archived_account"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule          string
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.TransactionID, e.Description)
}

// AccountChecker tests account references against the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
	Postable(id string) bool
}

// ValidateTransactions checks the shape of each transaction. It does not
// look at account references; reporting tolerates unknown accounts.
func ValidateTransactions(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(txns))

	for _, txn := range txns {
		add := func(rule, format string, args ...any) {
			errs = append(errs, ValidationError{Rule: rule, TransactionID: txn.ID, Description: fmt.Sprintf(format, args...)})
		}

		if txn.ID == "" {
			add(RuleMissingID, "transaction has no id")
		} else if seen[txn.ID] {
			add(RuleDuplicateID, "id used more than once")
		}
		seen[txn.ID] = true

		if txn.Date.IsZero() {
			add(RuleMissingDate, "transaction has no date")
		}
		if txn.AccountID == "" {
			add(RuleMissingAccount, "transaction has no account")
		}
		if txn.Currency == "" {
			add(RuleMissingCurrency, "transaction has no currency")
		}
		if !txn.ExchangeRate.IsPositive() {
			add(RuleExchangeRate, "exchange rate %s must be positive", txn.ExchangeRate)
			continue
		}

		want := txn.Amount.Mul(txn.ExchangeRate).Round(2)
		if !txn.BaseCurrencyAmount.Round(2).Equal(want) {
			add(RuleBaseAmount, "base amount %s != amount %s * rate %s",
				txn.BaseCurrencyAmount.StringFixed(2), txn.Amount.StringFixed(2), txn.ExchangeRate)
		}
	}

	return errs
}

// ValidatePostings runs ValidateTransactions and additionally requires every
// transaction to reference an existing, non-archived account.
func ValidatePostings(txns []model.Transaction, accounts AccountChecker) []ValidationError {
	errs := ValidateTransactions(txns)
	for _, txn := range txns {
		if txn.AccountID == "" {
			continue
		}
		switch {
		case !accounts.Exists(txn.AccountID):
			errs = append(errs, ValidationError{Rule: RuleUnknownAccount, TransactionID: txn.ID, Description: fmt.Sprintf("unknown account %s", txn.AccountID)})
		case !accounts.Postable(txn.AccountID):
			errs = append(errs, ValidationError{Rule: RuleArchivedAccount, TransactionID: txn.ID, Description: fmt.Sprintf("account %s is archived", txn.AccountID)})
		}
	}
	return errs
}

// Join folds validation errors into one error, or nil when there are none.
func Join(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i, ve := range verrs {
		errs[i] = ve
	}
	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
