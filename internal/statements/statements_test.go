package statements

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func acct(id, name string, typ model.AccountType, parent string) model.Account {
	return model.Account{ID: id, Number: id, Name: name, Type: typ, ParentID: parent}
}

func txn(id, date, accountID, amount string) model.Transaction {
	a := dec(amount)
	return model.Transaction{
		ID:                 id,
		Date:               day(date),
		AccountID:          accountID,
		Amount:             a,
		Currency:           "USD",
		ExchangeRate:       decimal.NewFromInt(1),
		BaseCurrencyAmount: a,
	}
}

// smallBusinessChart is a hierarchical chart resembling the default one.
func smallBusinessChart() []model.Account {
	checking := acct("1010", "Business Checking", model.AccountTypeAsset, "1000")
	checking.Role = model.RoleCash
	return []model.Account{
		acct("1000", "Current Assets", model.AccountTypeAsset, ""),
		checking,
		acct("1100", "Accounts Receivable", model.AccountTypeAsset, "1000"),
		acct("1200", "Inventory", model.AccountTypeAsset, "1000"),
		acct("2100", "Accounts Payable", model.AccountTypeLiability, ""),
		acct("3010", "Owner Contributions", model.AccountTypeEquity, ""),
		acct("4000", "Revenue", model.AccountTypeIncome, ""),
		acct("4010", "Consulting Revenue", model.AccountTypeIncome, "4000"),
		acct("4020", "Product Sales", model.AccountTypeIncome, "4000"),
		acct("4030", "Interest Income", model.AccountTypeIncome, "4000"),
		acct("5000", "Operating Expenses", model.AccountTypeExpense, ""),
		acct("5010", "Software", model.AccountTypeExpense, "5000"),
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}
