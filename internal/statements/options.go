// Package statements turns a ledger of dated transactions and a chart of
// accounts into financial statements: an indirect-method statement of cash
// flows for any date range, and monthly income statement, balance sheet and
// cash flow snapshots.
//
// Every function here is pure. Inputs are never modified, so callers may
// share one snapshot across concurrent calls.
package statements

import (
	"github.com/cleared-dev/reports/internal/accounts"
)

// Options tunes how statements are computed. The zero value is usable.
type Options struct {
	// Classifier resolves account roles. Nil means accounts.DefaultClassifier.
	Classifier *accounts.Classifier

	// Amount selects the aggregated figure. Nil means the transaction-currency
	// amount; use accounts.BaseAmount for multi-currency ledgers.
	Amount accounts.AmountFunc

	// FillEmptyMonths emits zero-activity periods for months with no
	// transactions between the first and last month. Off by default.
	FillEmptyMonths bool
}

func (o Options) classifier() *accounts.Classifier {
	if o.Classifier == nil {
		return accounts.DefaultClassifier
	}
	return o.Classifier
}

func (o Options) amount() accounts.AmountFunc {
	if o.Amount == nil {
		return accounts.TransactionAmount
	}
	return o.Amount
}
