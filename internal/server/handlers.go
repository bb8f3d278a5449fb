package server

import (
	"net/http"

	"github.com/cleared-dev/reports/internal/buildinfo"
	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/reporting"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Generate(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getAllReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.svc.GenerateAll(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) postReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	txns, err := toTransactions(req.Transactions)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	meta := s.svc.Meta("")
	if req.CompanyName != "" {
		meta.CompanyName = req.CompanyName
	}
	if req.Currency != "" {
		meta.Currency = req.Currency
	}
	report, err := s.svc.GenerateFrom(r.Context(), meta, req.Accounts, txns)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := s.svc.Entities()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"entities": entities})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) getCashFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := requireDay("start", q.Get("start"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	end, err := requireDay("end", q.Get("end"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	cf, err := s.svc.CashFlow(r.Context(), q.Get("entity"), start, end)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

func (s *Server) postCashFlow(w http.ResponseWriter, r *http.Request) {
	var req cashFlowRequest
	if err := decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	start, err := requireDay("start", req.Start)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	end, err := requireDay("end", req.End)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	txns, err := toTransactions(req.Transactions)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	cf, err := s.svc.CashFlowFrom(r.Context(), req.Accounts, txns, start, end)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := reporting.TreeQuery{Entity: q.Get("entity")}
	for _, t := range q["type"] {
		query.Types = append(query.Types, model.AccountType(t))
	}

	var err error
	if query.From, err = parseDay("from", q.Get("from")); err != nil {
		s.handleError(w, r, err)
		return
	}
	if query.To, err = parseDay("to", q.Get("to")); err != nil {
		s.handleError(w, r, err)
		return
	}

	forest, err := s.svc.Tree(r.Context(), query)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forest)
}

func (s *Server) postTree(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	txns, err := toTransactions(req.Transactions)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	query := reporting.TreeQuery{Types: req.Types}
	if query.From, err = parseDay("from", req.From); err != nil {
		s.handleError(w, r, err)
		return
	}
	if query.To, err = parseDay("to", req.To); err != nil {
		s.handleError(w, r, err)
		return
	}

	forest, err := s.svc.TreeFrom(r.Context(), req.Accounts, txns, query)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forest)
}
