package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleared-dev/reports/internal/reporting"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleError maps service errors to responses: bad input is a 400,
// anything else a logged 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var badReq *errBadRequest
	if errors.As(err, &badReq) || reporting.IsInputError(err) {
		s.logger.Debug("rejected request", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
