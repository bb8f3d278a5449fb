package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reports/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids      map[string]bool
	archived map[string]bool
}

func (m *mockAccounts) Exists(id string) bool {
	return m.ids[id]
}

func (m *mockAccounts) Postable(id string) bool {
	return m.ids[id] && !m.archived[id]
}

func newMockAccounts(ids ...string) *mockAccounts {
	m := &mockAccounts{ids: make(map[string]bool), archived: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func rules(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Rule)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	txns := []model.Transaction{sampleTxn("t1", "5020", "-4.00"), sampleTxn("t2", "1010", "4.00")}
	assert.Empty(t, ValidateTransactions(txns))
}

func TestValidate_MissingFields(t *testing.T) {
	txn := model.Transaction{ExchangeRate: dec("1")}
	errs := ValidateTransactions([]model.Transaction{txn})
	assert.Equal(t, []string{RuleMissingID, RuleMissingDate, RuleMissingAccount, RuleMissingCurrency}, rules(errs))
}

func TestValidate_DuplicateID(t *testing.T) {
	txns := []model.Transaction{sampleTxn("t1", "5020", "-4"), sampleTxn("t1", "5020", "-5")}
	errs := ValidateTransactions(txns)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleDuplicateID, errs[0].Rule)
	assert.Equal(t, "t1", errs[0].TransactionID)
}

func TestValidate_ExchangeRate(t *testing.T) {
	txn := sampleTxn("t1", "5020", "-4")
	txn.ExchangeRate = dec("0")
	errs := ValidateTransactions([]model.Transaction{txn})
	assert.Equal(t, []string{RuleExchangeRate}, rules(errs))
}

func TestValidate_BaseAmountMismatch(t *testing.T) {
	txn := sampleTxn("t1", "4010", "100")
	txn.ExchangeRate = dec("1.1")
	txn.BaseCurrencyAmount = dec("100")
	errs := ValidateTransactions([]model.Transaction{txn})
	require.Len(t, errs, 1)
	assert.Equal(t, RuleBaseAmount, errs[0].Rule)

	txn.BaseCurrencyAmount = dec("110.001")
	assert.Empty(t, ValidateTransactions([]model.Transaction{txn}), "base amount compares at cent precision")
}

func TestValidatePostings_References(t *testing.T) {
	accts := newMockAccounts("5020", "5060")
	accts.archived["5060"] = true

	txns := []model.Transaction{
		sampleTxn("t1", "5020", "-4"),
		sampleTxn("t2", "9999", "-4"),
		sampleTxn("t3", "5060", "-4"),
	}
	errs := ValidatePostings(txns, accts)
	assert.Equal(t, []string{RuleUnknownAccount, RuleArchivedAccount}, rules(errs))
	assert.Equal(t, "t2", errs[0].TransactionID)
	assert.Equal(t, "t3", errs[1].TransactionID)
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil))

	err := Join([]ValidationError{
		{Rule: RuleMissingDate, TransactionID: "t1", Description: "transaction has no date"},
		{Rule: RuleMissingCurrency, TransactionID: "t2", Description: "transaction has no currency"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_date [t1]")
	assert.Contains(t, err.Error(), "missing_currency [t2]")

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "t1", ve.TransactionID)
}
