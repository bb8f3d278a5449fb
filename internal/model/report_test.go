package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "0"},
		{"0", "0"},
		{"1000", "1000"},
		{"-400.50", "-400.5"},
	}
	for _, tt := range tests {
		got, err := ParseField("cash", tt.value)
		require.NoError(t, err, "ParseField(%q)", tt.value)
		assert.Equal(t, tt.want, got.String(), "ParseField(%q)", tt.value)
	}
}

func TestParseField_NonNumeric(t *testing.T) {
	_, err := ParseField("cash", "12abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cash")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("t1", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("t2", "2024-13-40")
	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "t2", dateErr.TransactionID)
	assert.Equal(t, "2024-13-40", dateErr.Value)

	_, err = ParseDate("t3", "")
	require.ErrorAs(t, err, &dateErr)
	assert.Contains(t, err.Error(), "missing date")
}

func TestParseParamDate(t *testing.T) {
	d, err := ParseParamDate("from", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseParamDate("from", "2024-13-40")
	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "from", dateErr.Param)
	assert.Empty(t, dateErr.TransactionID)
	assert.Equal(t, `from: invalid date "2024-13-40" (want YYYY-MM-DD)`, err.Error())
	assert.NotContains(t, err.Error(), "transaction")
}

func TestTransactionMonthKey(t *testing.T) {
	txn := Transaction{Date: time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025-03", txn.MonthKey())
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), txn.Day())
}

func TestAccountTypeValid(t *testing.T) {
	for _, at := range AccountTypes {
		assert.True(t, at.Valid(), "%q should be valid", at)
	}
	assert.False(t, AccountType("revenue").Valid())
}

func TestAccountRole_Valid(t *testing.T) {
	assert.True(t, RoleNone.Valid())
	for _, r := range AccountRoles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, AccountRole("petty_cash").Valid())
}
