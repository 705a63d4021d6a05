package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps the service error taxonomy to HTTP statuses:
// validation failures are 422, missing records 404, storage faults 502,
// and anything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *services.ValidationError
		nf *ledger.NotFoundError
		re *ledger.RepositoryError
	)
	switch {
	case errors.As(err, &ve) || errors.Is(err, ledger.ErrInvalidImport):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &re):
		slog.ErrorContext(r.Context(), "Storage failure", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadGateway, "storage unavailable")
	default:
		slog.ErrorContext(r.Context(), "Unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
