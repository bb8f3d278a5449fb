package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/reports/internal/model"
)

// FileName is the workspace configuration file at the repo root.
const FileName = "cleared.yaml"

// Amount bases for aggregation.
const (
	AmountBasisTransaction = "transaction"
	AmountBasisBase        = "base"
)

// Config represents the top-level cleared.yaml configuration.
type Config struct {
	Business     BusinessConfig  `yaml:"business"`
	Fiscal       FiscalConfig    `yaml:"fiscal"`
	BankAccounts []BankAccount   `yaml:"bank_accounts,omitempty"`
	Reporting    ReportingConfig `yaml:"reporting"`
	Git          GitConfig       `yaml:"git"`
	Server       ServerConfig    `yaml:"server"`
	Log          LogConfig       `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
	Currency   string `yaml:"currency"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// BankAccount maps a bank export to a chart-of-accounts entry.
type BankAccount struct {
	Name      string         `yaml:"name"`
	Format    string         `yaml:"format"` // importer parser name, e.g. "chase"
	LastFour  string         `yaml:"last_four,omitempty"`
	AccountID string         `yaml:"account_id"`
	EntityID  string         `yaml:"entity_id,omitempty"`
	Rules     []CategoryRule `yaml:"rules,omitempty"`
}

// CategoryRule posts the other side of matching bank rows to AccountID.
type CategoryRule struct {
	Match     string `yaml:"match"`
	AccountID string `yaml:"account_id"`
}

// ReportingConfig tunes statement generation.
type ReportingConfig struct {
	AmountBasis     string `yaml:"amount_basis"`
	FillEmptyMonths bool   `yaml:"fill_empty_months"`
	MaxConcurrency  int    `yaml:"max_concurrency"`
	// Classification adds account-name patterns per role, e.g.
	// cash: ["stripe balance"].
	Classification map[model.AccountRole][]string `yaml:"classification,omitempty"`
}

// GitConfig controls commits of workspace changes.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	AutoCommit  bool   `yaml:"auto_commit"`
}

// Author formats the commit author as "Name <email>".
func (g GitConfig) Author() string {
	return fmt.Sprintf("%s <%s>", g.AuthorName, g.AuthorEmail)
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a cleared.yaml file from disk and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			Currency:   "USD",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Reporting: ReportingConfig{
			AmountBasis:    AmountBasisTransaction,
			MaxConcurrency: 4,
		},
		Git: GitConfig{
			AuthorName:  "Cleared Reports",
			AuthorEmail: "reports@cleared.dev",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides config values from the environment.
func ApplyEnv(cfg *Config) {
	cfg.Log.Level = getEnv("CLEARED_LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Addr = getEnv("CLEARED_ADDR", cfg.Server.Addr)
	cfg.Reporting.MaxConcurrency = getEnvInt("CLEARED_MAX_CONCURRENCY", cfg.Reporting.MaxConcurrency)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Reporting.AmountBasis {
	case AmountBasisTransaction, AmountBasisBase:
	default:
		return fmt.Errorf("reporting.amount_basis: unknown basis %q", c.Reporting.AmountBasis)
	}
	if c.Reporting.MaxConcurrency < 1 {
		return fmt.Errorf("reporting.max_concurrency: must be at least 1, got %d", c.Reporting.MaxConcurrency)
	}
	if _, _, err := parseYearStart(c.Fiscal.YearStart); err != nil {
		return err
	}
	for role := range c.Reporting.Classification {
		if role == model.RoleNone || !role.Valid() {
			return fmt.Errorf("reporting.classification: unknown role %q", role)
		}
	}
	for i, ba := range c.BankAccounts {
		if ba.AccountID == "" {
			return fmt.Errorf("bank_accounts[%d] %q: account_id is required", i, ba.Name)
		}
	}
	return nil
}

// FiscalYearStart returns the start of the fiscal year containing asOf.
func (c *Config) FiscalYearStart(asOf time.Time) (time.Time, error) {
	month, day, err := parseYearStart(c.Fiscal.YearStart)
	if err != nil {
		return time.Time{}, err
	}
	start := time.Date(asOf.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if model.Day(asOf).Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start, nil
}

// BankAccountFor returns the bank account configured for an import format.
func (c *Config) BankAccountFor(format string) (BankAccount, bool) {
	for _, ba := range c.BankAccounts {
		if strings.EqualFold(ba.Format, format) {
			return ba, true
		}
	}
	return BankAccount{}, false
}

func parseYearStart(s string) (time.Month, int, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return 0, 0, fmt.Errorf("fiscal.year_start: %q is not MM-DD: %w", s, err)
	}
	return t.Month(), t.Day(), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
