package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/id"
	"github.com/cleared-dev/reports/internal/model"
)

// Service reads and appends the monthly journal files under a repo root.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// AddParams holds parameters for posting a transaction.
type AddParams struct {
	Date           time.Time
	Description    string
	AccountID      string
	Amount         decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal // zero means 1
	EntityID       string
	Reconciliation model.ReconciliationStatus
}

// Add validates a transaction against the chart of accounts and appends it
// to the month's journal.csv. Returns the transaction ID.
func (s *Service) Add(params AddParams) (string, error) {
	ids, err := s.AddBatch([]AddParams{params})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddBatch validates every posting before writing any of them, then appends
// them to their months' journal.csv files. Returns the IDs in input order.
// A validation failure leaves the journal untouched.
func (s *Service) AddBatch(params []AddParams) ([]string, error) {
	seqs := make(map[monthKey][]string)
	byMonth := make(map[monthKey][]model.Transaction)
	var months []monthKey
	txns := make([]model.Transaction, 0, len(params))

	for _, p := range params {
		key := monthKey{year: p.Date.Year(), month: int(p.Date.Month())}
		ids, ok := seqs[key]
		if !ok {
			existing, err := s.ReadMonth(key.year, key.month)
			if err != nil {
				return nil, err
			}
			ids = make([]string, len(existing))
			for i, t := range existing {
				ids[i] = t.ID
			}
			months = append(months, key)
		}

		rate := p.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		txn := model.Transaction{
			ID:                 id.FormatTransactionID(key.year, key.month, id.NextSeq(ids)),
			Date:               model.Day(p.Date),
			Description:        p.Description,
			AccountID:          p.AccountID,
			Amount:             p.Amount,
			Currency:           p.Currency,
			ExchangeRate:       rate,
			BaseCurrencyAmount: p.Amount.Mul(rate).Round(2),
			EntityID:           p.EntityID,
			Reconciliation:     p.Reconciliation,
		}
		seqs[key] = append(ids, txn.ID)
		byMonth[key] = append(byMonth[key], txn)
		txns = append(txns, txn)
	}

	if err := Join(ValidatePostings(txns, s.accounts)); err != nil {
		return nil, err
	}

	for _, key := range months {
		if err := s.appendMonth(key, byMonth[key]); err != nil {
			return nil, err
		}
	}

	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out, nil
}

type monthKey struct {
	year, month int
}

func (s *Service) appendMonth(key monthKey, txns []model.Transaction) error {
	journalPath := s.monthPath(key.year, key.month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	return readFile(s.monthPath(year, month))
}

// ReadAll reads every monthly journal under the repo root in month order.
func (s *Service) ReadAll() ([]model.Transaction, error) {
	pattern := filepath.Join(s.repoRoot, "[0-9][0-9][0-9][0-9]", "[0-1][0-9]", "journal.csv")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	sort.Strings(paths)

	var all []model.Transaction
	for _, path := range paths {
		txns, err := readFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

func readFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
