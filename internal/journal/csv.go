package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "transaction_id,date,account_id,description,amount,currency,exchange_rate,base_amount,entity_id,reconciliation"

const (
	numFields    = 10
	colID        = 0
	colDate      = 1
	colAcctID    = 2
	colDesc      = 3
	colAmount    = 4
	colCurrency  = 5
	colRate      = 6
	colBase      = 7
	colEntity    = 8
	colReconcile = 9
)

// ReadTransactions reads all transactions from a journal.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a journal.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendTransactions appends transactions to an existing journal.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing transaction %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(model.DateFormat)
	row[colAcctID] = txn.AccountID
	row[colDesc] = txn.Description
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCurrency] = txn.Currency
	if !txn.ExchangeRate.IsZero() {
		row[colRate] = txn.ExchangeRate.String()
	}
	row[colBase] = txn.BaseCurrencyAmount.StringFixed(2)
	row[colEntity] = txn.EntityID
	row[colReconcile] = string(txn.Reconciliation)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. A blank exchange
// rate means 1; a blank base amount is derived from amount and rate.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	txnID := record[colID]

	date, err := model.ParseDate(txnID, record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := parseAmount(txnID, "amount", record[colAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	rate := decimal.NewFromInt(1)
	if record[colRate] != "" {
		rate, err = parseAmount(txnID, "exchange_rate", record[colRate])
		if err != nil {
			return model.Transaction{}, err
		}
	}

	base := amount.Mul(rate)
	if record[colBase] != "" {
		base, err = parseAmount(txnID, "base_amount", record[colBase])
		if err != nil {
			return model.Transaction{}, err
		}
	}

	return model.Transaction{
		ID:                 txnID,
		Date:               date,
		Description:        record[colDesc],
		AccountID:          record[colAcctID],
		Amount:             amount,
		Currency:           record[colCurrency],
		ExchangeRate:       rate,
		BaseCurrencyAmount: base,
		EntityID:           record[colEntity],
		Reconciliation:     model.ReconciliationStatus(record[colReconcile]),
	}, nil
}

func parseAmount(txnID, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &model.InvalidAmountError{TransactionID: txnID, Field: field, Value: value, Err: err}
	}
	return d, nil
}
