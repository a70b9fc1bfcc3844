// Package http exposes the expense, group and monthly-report API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/rs/cors"

	"saldo/internal/cache"
	"saldo/internal/core"
	"saldo/internal/ledger"
	"saldo/internal/middleware/trace"
	"saldo/internal/services"
)

// GroupStore bundles the group ports the API needs.
type GroupStore interface {
	ledger.GroupWriter
	ledger.GroupLister
	ledger.RosterReader
}

type Server struct {
	http.Server

	expenseSvc *services.ExpenseService
	reports    *services.ReportService
	groups     GroupStore
	expenses   ledger.ExpenseLister

	rateLimiter *rateLimiter
	traceMW     *trace.Middleware

	// Month reports are cached between expense writes.
	reportCache *cache.LRUCache[core.Report]

	appMetrics       appMetrics
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

type appMetrics struct {
	startedAt     time.Time
	totalExpenses int64
	totalReports  int64
	cacheHits     int64
	cacheMisses   int64
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) activeClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// allow permits up to 60 requests per client per minute.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, expenseSvc *services.ExpenseService, reports *services.ReportService, groups GroupStore, expenses ledger.ExpenseLister, allowedOrigins []string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		expenseSvc:       expenseSvc,
		reports:          reports,
		groups:           groups,
		expenses:         expenses,
		rateLimiter:      newRateLimiter(),
		traceMW:          trace.NewMiddleware(),
		reportCache:      cache.New[core.Report](100, 5*time.Minute),
		appMetrics:       appMetrics{startedAt: time.Now()},
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/ready", s.handleReady)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/groups", s.handleGroups)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/reports/monthly", s.handleMonthlyReport)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.traceMW.Middleware(c.Handler(s.limit(mux))),
	}

	go s.startCacheCleanup()

	return s
}

// limit rejects clients over the per-minute budget.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(trace.ClientIP(r)) {
			errorJSON(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Report cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
