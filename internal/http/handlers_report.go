package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"log/slog"

	"saldo/internal/services"
)

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	year, yearErr := strconv.Atoi(q.Get("year"))
	month, monthErr := strconv.Atoi(q.Get("month"))
	if yearErr != nil || monthErr != nil || year == 0 || month == 0 {
		errorJSON(w, http.StatusBadRequest, "year and month are required")
		return
	}

	key := reportCacheKey(year, month)
	if cached, ok := s.reportCache.Get(key); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		writeJSON(w, http.StatusOK, cached)
		return
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	report, err := s.reports.MonthlyReport(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build monthly report", "error", err, "year", year, "month", month)
		errorJSON(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	atomic.AddInt64(&s.appMetrics.totalReports, 1)
	s.reportCache.Set(key, report)

	writeJSON(w, http.StatusOK, report)
}
