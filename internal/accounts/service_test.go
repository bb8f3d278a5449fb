package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reports/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart("llc_single_member")
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestAllReturnsCopy(t *testing.T) {
	svc := NewService(DefaultChart("llc_single_member"))
	all := svc.All()
	all[0].Name = "mutated"

	acct, ok := svc.Get(all[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", acct.Name)
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart("llc_single_member"))

	acct, ok := svc.Get("1010")
	assert.True(t, ok)
	assert.Equal(t, "Business Checking", acct.Name)

	_, ok = svc.Get("9999")
	assert.False(t, ok)

	assert.True(t, svc.Exists("1010"))
	assert.False(t, svc.Exists("9999"))
}

func TestPostable(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: "5020", Name: "Software", Type: model.AccountTypeExpense},
		{ID: "5060", Name: "Old Hosting", Type: model.AccountTypeExpense, IsArchived: true},
	})

	assert.True(t, svc.Postable("5020"))
	assert.False(t, svc.Postable("5060"), "archived accounts take no new postings")
	assert.False(t, svc.Postable("9999"))
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart("llc_single_member"))

	assets := svc.ByType(model.AccountTypeAsset)
	assert.Len(t, assets, 6)
	for _, a := range assets {
		assert.Equal(t, model.AccountTypeAsset, a.Type)
	}

	expenses := svc.ByType(model.AccountTypeExpense)
	assert.Len(t, expenses, 7)
}

func TestLoadFromTestdata(t *testing.T) {
	dir := t.TempDir()
	acctDir := filepath.Join(dir, "accounts")
	require.NoError(t, os.MkdirAll(acctDir, 0o755))

	src, err := os.ReadFile("../../testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(acctDir, "chart-of-accounts.csv"), src, 0o644))

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 22)
	assert.True(t, svc.Exists("1010"))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening chart of accounts")
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart("llc_single_member")
	svc := NewService(chart)

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	path := filepath.Join(dir, "accounts", "chart-of-accounts.csv")
	_, err := os.Stat(path)
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(chart))

	for _, orig := range chart {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %s should exist", orig.ID)
		assert.Equal(t, orig, got)
	}
}
