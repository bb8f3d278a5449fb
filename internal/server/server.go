// Package server exposes reports, cash flows and account trees over JSON HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cleared-dev/reports/internal/observability"
	"github.com/cleared-dev/reports/internal/reporting"
)

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the reporting service.
type Server struct {
	svc     *reporting.Service
	metrics *observability.Metrics
	logger  *zap.Logger
	router  chi.Router
	addr    string
}

// New creates a Server listening on addr.
func New(svc *reporting.Service, metrics *observability.Metrics, logger *zap.Logger, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)

	s := &Server{svc: svc, metrics: metrics, logger: logger, router: r, addr: addr}

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		// Reports
		r.Get("/reports", s.getReport)
		r.Post("/reports", s.postReport)
		r.Get("/reports/all", s.getAllReports)
		r.Get("/reports/entities", s.listEntities)
		r.Get("/reports/stats", s.stats)

		// Cash flow
		r.Get("/cashflow", s.getCashFlow)
		r.Post("/cashflow", s.postCashFlow)

		// Account trees
		r.Get("/accounts/tree", s.getTree)
		r.Post("/accounts/tree", s.postTree)
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
