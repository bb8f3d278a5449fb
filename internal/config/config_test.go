package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reports/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz", "llc_single_member")
	cfg.BankAccounts = []BankAccount{
		{
			Name: "Chase Checking", Format: "chase", LastFour: "1234", AccountID: "1010",
			Rules: []CategoryRule{{Match: "github", AccountID: "5020"}},
		},
	}
	cfg.Reporting.FillEmptyMonths = true
	cfg.Reporting.AmountBasis = AmountBasisBase
	cfg.Reporting.Classification = map[model.AccountRole][]string{
		model.RoleCash: {"stripe balance"},
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "llc_single_member")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "llc_single_member", cfg.Business.EntityType)
	assert.Equal(t, "USD", cfg.Business.Currency)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, AmountBasisTransaction, cfg.Reporting.AmountBasis)
	assert.False(t, cfg.Reporting.FillEmptyMonths)
	assert.Equal(t, 4, cfg.Reporting.MaxConcurrency)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Cleared Reports <reports@cleared.dev>", cfg.Git.Author())
	assert.False(t, cfg.Git.AutoCommit)
	assert.Empty(t, cfg.BankAccounts)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Acme\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Business.Name)
	assert.Equal(t, "USD", cfg.Business.Currency)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Acme", "llc_single_member")))

	t.Setenv("CLEARED_LOG_LEVEL", "debug")
	t.Setenv("CLEARED_ADDR", "127.0.0.1:9090")
	t.Setenv("CLEARED_MAX_CONCURRENCY", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Reporting.MaxConcurrency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"amount basis", func(c *Config) { c.Reporting.AmountBasis = "gross" }, `unknown basis "gross"`},
		{"concurrency", func(c *Config) { c.Reporting.MaxConcurrency = 0 }, "max_concurrency"},
		{"year start", func(c *Config) { c.Fiscal.YearStart = "13-01" }, "fiscal.year_start"},
		{"role", func(c *Config) {
			c.Reporting.Classification = map[model.AccountRole][]string{"petty_cash": {"tin"}}
		}, `unknown role "petty_cash"`},
		{"bank account", func(c *Config) {
			c.BankAccounts = []BankAccount{{Name: "Chase", Format: "chase"}}
		}, "account_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Acme", "llc_single_member")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFiscalYearStart(t *testing.T) {
	cfg := Default("Acme", "llc_single_member")

	start, err := cfg.FiscalYearStart(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start.Format(model.DateFormat))

	cfg.Fiscal.YearStart = "07-01"
	start, err = cfg.FiscalYearStart(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", start.Format(model.DateFormat))

	start, err = cfg.FiscalYearStart(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", start.Format(model.DateFormat))
}

func TestBankAccountFor(t *testing.T) {
	cfg := Default("Acme", "llc_single_member")
	cfg.BankAccounts = []BankAccount{{Name: "Chase Checking", Format: "chase", AccountID: "1010"}}

	ba, ok := cfg.BankAccountFor("Chase")
	require.True(t, ok)
	assert.Equal(t, "1010", ba.AccountID)

	_, ok = cfg.BankAccountFor("amex")
	assert.False(t, ok)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz", "llc_single_member")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "entity_type: llc_single_member")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "amount_basis: transaction")
	assert.Contains(t, contents, "author_name: Cleared Reports")
	assert.Contains(t, contents, "auto_commit: false")
	assert.Contains(t, contents, "level: info")
}
