// Package reporting loads a workspace's chart of accounts and journal and
// produces statements from them.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/config"
	"github.com/cleared-dev/reports/internal/journal"
	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/observability"
	"github.com/cleared-dev/reports/internal/statements"
)

var tracer = otel.Tracer("reporting")

// Report kinds used as metric labels.
const (
	kindReport   = "report"
	kindCashFlow = "cashflow"
	kindTree     = "tree"
)

// Service generates statements for a workspace.
type Service struct {
	repoRoot string
	cfg      *config.Config
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a reporting Service.
func NewService(repoRoot string, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repoRoot: repoRoot,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Options returns the statement options configured for the workspace.
func (s *Service) Options() statements.Options {
	opts := statements.Options{
		FillEmptyMonths: s.cfg.Reporting.FillEmptyMonths,
	}
	if len(s.cfg.Reporting.Classification) > 0 {
		opts.Classifier = accounts.NewClassifier(s.cfg.Reporting.Classification)
	}
	if s.cfg.Reporting.AmountBasis == config.AmountBasisBase {
		opts.Amount = accounts.BaseAmount
	}
	return opts
}

// Load reads the chart of accounts and every journal in the workspace.
func (s *Service) Load() ([]model.Account, []model.Transaction, error) {
	acctSvc, err := accounts.Load(s.repoRoot)
	if err != nil {
		return nil, nil, err
	}
	txns, err := journal.NewService(s.repoRoot, acctSvc).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return acctSvc.All(), txns, nil
}

// Entities lists the distinct entity IDs in the journal. Transactions
// without an entity are reported under "".
func (s *Service) Entities() ([]string, error) {
	_, txns, err := s.Load()
	if err != nil {
		return nil, err
	}
	return entities(txns), nil
}

// Generate builds the monthly report for one entity, or for the whole
// journal when entity is empty.
func (s *Service) Generate(ctx context.Context, entity string) (model.ReportData, error) {
	accts, txns, err := s.Load()
	if err != nil {
		return model.ReportData{}, err
	}
	return s.GenerateFrom(ctx, s.Meta(entity), accts, FilterEntity(txns, entity))
}

// GenerateAll builds one report per entity concurrently, bounded by
// reporting.max_concurrency. The "" report holds only transactions that
// carry no entity.
func (s *Service) GenerateAll(ctx context.Context) (map[string]model.ReportData, error) {
	accts, txns, err := s.Load()
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		reports = make(map[string]model.ReportData)
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Reporting.MaxConcurrency)

	names := entities(txns)
	if len(names) == 0 {
		names = []string{""}
	}
	for _, entity := range names {
		entity := entity
		subset := onlyEntity(txns, entity)
		g.Go(func() error {
			report, err := s.GenerateFrom(gCtx, s.Meta(entity), accts, subset)
			if err != nil {
				return fmt.Errorf("entity %q: %w", entity, err)
			}
			mu.Lock()
			reports[entity] = report
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ReportMeta labels a generated report. Entity only tags logs and metrics.
type ReportMeta struct {
	CompanyName string
	Currency    string
	Entity      string
}

// GenerateFrom validates txns and builds a report from the given snapshot.
func (s *Service) GenerateFrom(ctx context.Context, meta ReportMeta, accts []model.Account, txns []model.Transaction) (report model.ReportData, err error) {
	entity := meta.Entity
	if err := ctx.Err(); err != nil {
		return model.ReportData{}, err
	}

	_, span := tracer.Start(ctx, "Reporting.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity", entity),
		attribute.Int("transactions", len(txns)),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordReport(kindReport, time.Since(start), err)
		endSpan(span, err)
	}()

	if err := journal.Join(journal.ValidateTransactions(txns)); err != nil {
		return model.ReportData{}, err
	}

	report, err = statements.Transform(txns, accts, meta.CompanyName, meta.Currency, s.Options())
	if err != nil {
		s.logger.Error("report generation failed", zap.String("entity", entity), zap.Error(err))
		return model.ReportData{}, err
	}

	report.ReportID = uuid.NewString()
	report.GeneratedAt = s.now()

	uncategorized := report.Diagnostics.UncategorizedTransactionIDs
	if len(uncategorized) > 0 {
		s.logger.Warn("transactions posted to unknown accounts",
			zap.String("entity", entity),
			zap.Int("count", len(uncategorized)),
			zap.Strings("transaction_ids", uncategorized),
		)
		s.metrics.AddUncategorized(entity, len(uncategorized))
	}
	s.metrics.AddPeriods(len(report.Periods))
	span.SetAttributes(attribute.Int("periods", len(report.Periods)))

	s.logger.Debug("report generated",
		zap.String("report_id", report.ReportID),
		zap.String("entity", entity),
		zap.Int("periods", len(report.Periods)),
	)
	return report, nil
}

// CashFlow computes the statement of cash flows for an entity's journal.
func (s *Service) CashFlow(ctx context.Context, entity string, start, end time.Time) (statements.CashFlowStatement, error) {
	accts, txns, err := s.Load()
	if err != nil {
		return statements.CashFlowStatement{}, err
	}
	return s.CashFlowFrom(ctx, accts, FilterEntity(txns, entity), start, end)
}

// CashFlowFrom computes the statement of cash flows from a snapshot.
func (s *Service) CashFlowFrom(ctx context.Context, accts []model.Account, txns []model.Transaction, start, end time.Time) (cf statements.CashFlowStatement, err error) {
	_, span := tracer.Start(ctx, "Reporting.CashFlow")
	defer span.End()

	began := time.Now()
	defer func() {
		s.metrics.RecordReport(kindCashFlow, time.Since(began), err)
		endSpan(span, err)
	}()

	if err := journal.Join(journal.ValidateTransactions(txns)); err != nil {
		return statements.CashFlowStatement{}, err
	}
	return statements.CalculateCashFlows(txns, accts, start, end, s.Options())
}

// TreeQuery selects the transactions aggregated into an account tree.
// Zero From/To leave that side of the window open.
type TreeQuery struct {
	Types  []model.AccountType
	Entity string
	From   time.Time
	To     time.Time
}

// Tree builds the account forest for the workspace, sorted by account number.
func (s *Service) Tree(ctx context.Context, q TreeQuery) ([]*accounts.Node, error) {
	accts, txns, err := s.Load()
	if err != nil {
		return nil, err
	}
	return s.TreeFrom(ctx, accts, FilterEntity(txns, q.Entity), q)
}

// TreeFrom builds the account forest from a snapshot. q.Entity is ignored;
// the caller filters txns.
func (s *Service) TreeFrom(ctx context.Context, accts []model.Account, txns []model.Transaction, q TreeQuery) (forest []*accounts.Node, err error) {
	_, span := tracer.Start(ctx, "Reporting.Tree")
	defer span.End()

	began := time.Now()
	defer func() {
		s.metrics.RecordReport(kindTree, time.Since(began), err)
		endSpan(span, err)
	}()

	types := q.Types
	if len(types) == 0 {
		types = model.AccountTypes
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAccountType, t)
		}
	}

	amount := s.Options().Amount
	if amount == nil {
		amount = accounts.TransactionAmount
	}
	forest, err = accounts.BuildTreeBy(accts, filterDates(txns, q.From, q.To), types, amount)
	if err != nil {
		return nil, err
	}
	accounts.SortByNumber(forest)
	return forest, nil
}

// FilterEntity returns the transactions for entity; "" keeps all.
func FilterEntity(txns []model.Transaction, entity string) []model.Transaction {
	if entity == "" {
		return txns
	}
	return onlyEntity(txns, entity)
}

// onlyEntity returns the transactions tagged exactly entity, so "" selects
// the unscoped ones.
func onlyEntity(txns []model.Transaction, entity string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.EntityID == entity {
			out = append(out, t)
		}
	}
	return out
}

func filterDates(txns []model.Transaction, from, to time.Time) []model.Transaction {
	if from.IsZero() && to.IsZero() {
		return txns
	}
	var out []model.Transaction
	for _, t := range txns {
		d := t.Day()
		if !from.IsZero() && d.Before(model.Day(from)) {
			continue
		}
		if !to.IsZero() && d.After(model.Day(to)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func entities(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		if !seen[t.EntityID] {
			seen[t.EntityID] = true
			out = append(out, t.EntityID)
		}
	}
	sort.Strings(out)
	return out
}

// Meta labels reports for entity with the configured business name and currency.
func (s *Service) Meta(entity string) ReportMeta {
	name := s.cfg.Business.Name
	if entity != "" {
		name = fmt.Sprintf("%s (%s)", name, entity)
	}
	return ReportMeta{CompanyName: name, Currency: s.cfg.Business.Currency, Entity: entity}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
