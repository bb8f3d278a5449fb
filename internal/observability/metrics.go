package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus metrics for report generation.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	reportsTotal   *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	periodsTotal   prometheus.Counter
	uncategorized  *prometheus.CounterVec
	importedTotal  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// metrics in it, so it can be called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleared_reports_total",
				Help: "Total reports generated by kind and status.",
			},
			[]string{"kind", "status"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cleared_report_duration_seconds",
				Help:    "Duration of report generation by kind.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		periodsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cleared_report_periods_total",
				Help: "Total monthly periods produced.",
			},
		),
		uncategorized: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleared_uncategorized_transactions_total",
				Help: "Transactions posted to accounts missing from the chart, by entity.",
			},
			[]string{"entity"},
		),
		importedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleared_imported_transactions_total",
				Help: "Bank transactions imported, by parser.",
			},
			[]string{"parser"},
		),
	}
}

// RecordReport records one report generation.
func (m *Metrics) RecordReport(kind string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reportsTotal.WithLabelValues(kind, status).Inc()
	m.reportDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddPeriods counts produced periods.
func (m *Metrics) AddPeriods(n int) {
	m.periodsTotal.Add(float64(n))
}

// AddUncategorized counts transactions on unknown accounts for an entity.
func (m *Metrics) AddUncategorized(entity string, n int) {
	if n == 0 {
		return
	}
	m.uncategorized.WithLabelValues(entity).Add(float64(n))
}

// AddImported counts imported bank transactions.
func (m *Metrics) AddImported(parser string, n int) {
	m.importedTotal.WithLabelValues(parser).Add(float64(n))
}

// Snapshot is a point-in-time view of the report counters.
type Snapshot struct {
	ReportsSucceeded float64 `json:"reportsSucceeded"`
	ReportsFailed    float64 `json:"reportsFailed"`
	Periods          float64 `json:"periods"`
}

// Snapshot reads the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	var s Snapshot
	for _, kind := range []string{"report", "cashflow", "tree"} {
		s.ReportsSucceeded += counterValue(m.reportsTotal.WithLabelValues(kind, "success"))
		s.ReportsFailed += counterValue(m.reportsTotal.WithLabelValues(kind, "error"))
	}
	s.Periods = counterValue(m.periodsTotal)
	return s
}

// UncategorizedCount returns the uncategorized counter for an entity.
func (m *Metrics) UncategorizedCount(entity string) float64 {
	return counterValue(m.uncategorized.WithLabelValues(entity))
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
