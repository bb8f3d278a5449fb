// Package importer reads bank CSV exports from the workspace import
// directory and turns them into journal postings.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/reports/internal/journal"
	"github.com/cleared-dev/reports/internal/model"
)

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists registered parser names in order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Rule posts the category side of bank rows whose description contains
// Match (case-insensitive) to AccountID.
type Rule struct {
	Match     string
	AccountID string
}

// Mapping describes where a bank export's rows are posted.
type Mapping struct {
	AccountID string // the bank's cash account
	EntityID  string
	Currency  string
	Rules     []Rule
}

// ToPostings converts bank rows into journal postings. Every row posts its
// signed amount to the bank account, marked reconciled. When a rule matches,
// a second posting with the same signed amount goes to the rule's account,
// so outflows land on expense accounts as negatives and inflows on income
// accounts as positives. Rows no rule matches are returned as unmatched.
func ToPostings(rows []model.BankTransaction, m Mapping) (postings []journal.AddParams, unmatched []model.BankTransaction) {
	for _, row := range rows {
		base := journal.AddParams{
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount,
			Currency:    m.Currency,
			EntityID:    m.EntityID,
		}

		cash := base
		cash.AccountID = m.AccountID
		cash.Reconciliation = model.StatusReconciled
		postings = append(postings, cash)

		accountID, ok := m.categorize(row.Description)
		if !ok {
			unmatched = append(unmatched, row)
			continue
		}
		category := base
		category.AccountID = accountID
		category.Reconciliation = model.StatusUnreconciled
		postings = append(postings, category)
	}
	return postings, unmatched
}

func (m Mapping) categorize(desc string) (string, bool) {
	lower := strings.ToLower(desc)
	for _, r := range m.Rules {
		if r.Match != "" && strings.Contains(lower, strings.ToLower(r.Match)) {
			return r.AccountID, true
		}
	}
	return "", false
}
