package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/reports/internal/model"
)

const (
	numFields   = 8
	colID       = 0
	colNumber   = 1
	colName     = 2
	colType     = 3
	colRole     = 4
	colParent   = 5
	colDesc     = 6
	colArchived = 7
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"account_id", "account_number", "account_name", "account_type", "role", "parent_id", "description", "archived"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colNumber] = acct.Number
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colRole] = string(acct.Role)
	row[colParent] = acct.ParentID
	row[colDesc] = acct.Description
	if acct.IsArchived {
		row[colArchived] = "true"
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colID] == "" {
		return model.Account{}, fmt.Errorf("missing account_id")
	}

	acctType := model.AccountType(record[colType])
	if !acctType.Valid() {
		return model.Account{}, fmt.Errorf("account %s: unknown account_type %q", record[colID], record[colType])
	}

	role := model.AccountRole(record[colRole])
	if !role.Valid() {
		return model.Account{}, fmt.Errorf("account %s: unknown role %q", record[colID], record[colRole])
	}

	var archived bool
	if record[colArchived] != "" {
		var err error
		archived, err = strconv.ParseBool(record[colArchived])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing archived %q: %w", record[colArchived], err)
		}
	}

	return model.Account{
		ID:          record[colID],
		Number:      record[colNumber],
		Name:        record[colName],
		Type:        acctType,
		Role:        role,
		ParentID:    record[colParent],
		Description: record[colDesc],
		IsArchived:  archived,
	}, nil
}
