package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

const maxBodyBytes = 10 << 20

// transactionInput is a transaction as posted by clients: dates are
// YYYY-MM-DD, and exchange rate and base amount are optional.
type transactionInput struct {
	ID                 string                     `json:"id"`
	Date               string                     `json:"date"`
	Description        string                     `json:"description"`
	AccountID          string                     `json:"accountId"`
	Amount             decimal.Decimal            `json:"amount"`
	Currency           string                     `json:"currency"`
	ExchangeRate       decimal.NullDecimal        `json:"exchangeRate"`
	BaseCurrencyAmount decimal.NullDecimal        `json:"baseCurrencyAmount"`
	EntityID           string                     `json:"entityId"`
	Reconciliation     model.ReconciliationStatus `json:"reconciliationStatus"`
}

func (in transactionInput) toTransaction() (model.Transaction, error) {
	date, err := model.ParseDate(in.ID, in.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	rate := decimal.NewFromInt(1)
	if in.ExchangeRate.Valid {
		rate = in.ExchangeRate.Decimal
	}
	base := in.Amount.Mul(rate)
	if in.BaseCurrencyAmount.Valid {
		base = in.BaseCurrencyAmount.Decimal
	}
	return model.Transaction{
		ID:                 in.ID,
		Date:               date,
		Description:        in.Description,
		AccountID:          in.AccountID,
		Amount:             in.Amount,
		Currency:           in.Currency,
		ExchangeRate:       rate,
		BaseCurrencyAmount: base,
		EntityID:           in.EntityID,
		Reconciliation:     in.Reconciliation,
	}, nil
}

func toTransactions(ins []transactionInput) ([]model.Transaction, error) {
	txns := make([]model.Transaction, 0, len(ins))
	for _, in := range ins {
		t, err := in.toTransaction()
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// snapshotRequest carries a caller-supplied chart and ledger.
type snapshotRequest struct {
	Accounts     []model.Account    `json:"accounts"`
	Transactions []transactionInput `json:"transactions"`
}

type reportRequest struct {
	snapshotRequest
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
}

type cashFlowRequest struct {
	snapshotRequest
	Start string `json:"start"`
	End   string `json:"end"`
}

type treeRequest struct {
	snapshotRequest
	Types []model.AccountType `json:"types"`
	From  string              `json:"from"`
	To    string              `json:"to"`
}

// errBadRequest marks request decoding and parameter errors.
type errBadRequest struct {
	err error
}

func (e *errBadRequest) Error() string { return e.err.Error() }
func (e *errBadRequest) Unwrap() error { return e.err }

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &errBadRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

// parseDay parses an optional YYYY-MM-DD parameter; "" is the zero time.
func parseDay(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return model.ParseParamDate(name, value)
}

// requireDay parses a required YYYY-MM-DD parameter.
func requireDay(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &errBadRequest{fmt.Errorf("missing %s", name)}
	}
	return model.ParseParamDate(name, value)
}
