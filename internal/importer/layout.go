package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

// layout locates the fields of a bank export by header name. Each field
// lists the header names it accepts, matched case-insensitively.
type layout struct {
	format      string
	dateLayout  string
	date        []string
	description []string
	amount      []string
	kind        []string // optional
}

// columns maps each field of l to its index in header.
type columns struct {
	date, description, amount, kind int
}

func (l layout) resolve(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	find := func(names []string) int {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		date:        find(l.date),
		description: find(l.description),
		amount:      find(l.amount),
		kind:        find(l.kind),
	}
	for _, req := range []struct {
		col   int
		names []string
	}{{cols.date, l.date}, {cols.description, l.description}, {cols.amount, l.amount}} {
		if req.col < 0 {
			return columns{}, fmt.Errorf("%s CSV: missing %q column", l.format, req.names[0])
		}
	}
	return cols, nil
}

// read parses every data row after the header. A file with no rows yields nil.
func (l layout) read(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", l.format, err)
	}
	cols, err := l.resolve(header)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return txns, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s CSV: %w", l.format, err)
		}
		txn, err := l.row(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		txns = append(txns, txn)
	}
}

func (l layout) row(cols columns, rec []string) (model.BankTransaction, error) {
	field := func(col int) string {
		if col >= 0 && col < len(rec) {
			return strings.TrimSpace(rec[col])
		}
		return ""
	}

	desc := field(cols.description)
	rawDate := field(cols.date)
	if rawDate == "" {
		return model.BankTransaction{}, &model.InvalidDateError{TransactionID: desc}
	}
	date, err := time.Parse(l.dateLayout, rawDate)
	if err != nil {
		return model.BankTransaction{}, &model.InvalidDateError{TransactionID: desc, Value: rawDate, Err: err}
	}

	rawAmount := field(cols.amount)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return model.BankTransaction{}, &model.InvalidAmountError{TransactionID: desc, Field: "amount", Value: rawAmount, Err: err}
	}

	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   makeRef(l.format, date, desc),
		Type:        field(cols.kind),
	}, nil
}

// makeRef builds a reference like chase_20250103_GITHUBPROS from the first
// ten alphanumerics of the description.
func makeRef(format string, date time.Time, desc string) string {
	var b strings.Builder
	for _, r := range desc {
		if b.Len() == 10 {
			break
		}
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return format + "_" + date.Format("20060102") + "_" + b.String()
}
