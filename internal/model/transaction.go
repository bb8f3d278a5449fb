package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the day-granularity layout used for transaction dates.
const DateFormat = "2006-01-02"

// ReconciliationStatus tracks bank reconciliation of a transaction.
type ReconciliationStatus string

const (
	StatusUnreconciled ReconciliationStatus = "unreconciled"
	StatusReconciled   ReconciliationStatus = "reconciled"
	StatusMatched      ReconciliationStatus = "matched"
)

// Transaction is a single signed posting to one account.
type Transaction struct {
	ID                 string               `json:"id"`
	Date               time.Time            `json:"date"`
	Description        string               `json:"description"`
	AccountID          string               `json:"accountId"`
	Amount             decimal.Decimal      `json:"amount"` // negative = outflow, positive = inflow
	Currency           string               `json:"currency"`
	ExchangeRate       decimal.Decimal      `json:"exchangeRate"`
	BaseCurrencyAmount decimal.Decimal      `json:"baseCurrencyAmount"`
	EntityID           string               `json:"entityId,omitempty"`
	Reconciliation     ReconciliationStatus `json:"reconciliationStatus,omitempty"`
}

// MonthKey returns the calendar month bucket, e.g. "2025-01".
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// Day returns the transaction date truncated to midnight UTC.
func (t Transaction) Day() time.Time {
	return Day(t.Date)
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}
