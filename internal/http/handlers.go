package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.startedAt).String(),
	})
}

// handleReady reports readiness by probing the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.groups.Roster(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "store not reachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "saldo_uptime_seconds %.0f\n", time.Since(s.appMetrics.startedAt).Seconds())
	fmt.Fprintf(w, "saldo_http_requests_total %d\n", s.traceMW.TotalRequests())
	fmt.Fprintf(w, "saldo_expenses_created_total %d\n", atomic.LoadInt64(&s.appMetrics.totalExpenses))
	fmt.Fprintf(w, "saldo_reports_built_total %d\n", atomic.LoadInt64(&s.appMetrics.totalReports))
	fmt.Fprintf(w, "saldo_report_cache_hits_total %d\n", atomic.LoadInt64(&s.appMetrics.cacheHits))
	fmt.Fprintf(w, "saldo_report_cache_misses_total %d\n", atomic.LoadInt64(&s.appMetrics.cacheMisses))
	fmt.Fprintf(w, "saldo_report_cache_entries %d\n", s.reportCache.Size())
	fmt.Fprintf(w, "saldo_rate_limiter_clients %d\n", s.rateLimiter.activeClients())
}
