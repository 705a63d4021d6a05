package http

import (
	"net/http"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.service.GetTransactions(r.Context(), filters)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto core.CreateTransaction
	if err := decodeBody(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.service.CreateTransaction(r.Context(), dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, ok, err := s.service.GetTransactionByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto core.UpdateTransaction
	if err := decodeBody(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dto.ID = r.PathValue("id")

	tx, err := s.service.UpdateTransaction(r.Context(), dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.service.CalculateBalance(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetMonthlyStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if stats == nil {
		stats = []core.MonthlyStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	period := analytics.PeriodAll
	if v := r.URL.Query().Get("period"); v != "" {
		period = analytics.Period(v)
		if !period.Valid() {
			writeError(w, http.StatusBadRequest, "unknown period: "+v)
			return
		}
	}

	txs, err := s.service.GetTransactions(r.Context(), core.Filters{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	windowed := analytics.Window(txs, period, time.Now())
	writeJSON(w, http.StatusOK, analytics.CategoryBreakdown(windowed))
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonths(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.service.GetTransactions(r.Context(), core.Filters{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeStatistics(txs, months))
}

func (s *Server) handlePeriodOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.PeriodOptions())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("type"); v != "" {
		tt := core.TransactionType(v)
		if !tt.Valid() {
			writeError(w, http.StatusBadRequest, "unknown transaction type: "+v)
			return
		}
		writeJSON(w, http.StatusOK, core.CategoriesByType(tt))
		return
	}

	writeJSON(w, http.StatusOK, map[string][]core.CategoryOption{
		"income":  core.CategoriesByType(core.Income),
		"expense": core.CategoriesByType(core.Expense),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.ExportToJSON(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.ImportFromJSON(r.Context(), body); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
