package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the data store and reports cache and limiter state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	switch {
	case s.deps.Store == nil:
		checks["store"] = "not_configured"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	default:
		if err := s.deps.Store.Ping(ctx); err != nil {
			checks["store"] = fmt.Sprintf("failed: %v", err)
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	checks["calculator_sessions"] = s.sessions.Size()
	checks["rate_limiter_clients"] = s.rateLimiter.ActiveClients()

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	trace := s.traceMiddleware.GetMetrics()
	limits := s.rateLimiter.GetMetrics()
	detected := s.detector.GetMetrics()

	var b strings.Builder
	metric := func(name, kind, help string, value int64) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", trace.TotalRequests)
	metric("http_server_errors_total", "counter", "Responses with a 5xx status", trace.ServerErrors)
	metric("transactions_recorded_total", "counter", "Transactions recorded by this process", s.appMetrics.transactions.Load())
	metric("receipts_uploaded_total", "counter", "Receipt files stored by this process", s.appMetrics.receiptsUploaded.Load())
	metric("calculator_presses_total", "counter", "Calculator key presses", s.appMetrics.calcPresses.Load())
	metric("calculator_sessions", "gauge", "Live calculator sessions", int64(s.sessions.Size()))
	metric("rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", limits.TotalHits)
	metric("rate_limit_clients", "gauge", "Clients tracked by the rate limiter", limits.ClientCount)
	metric("suspicious_requests_total", "counter", "Requests flagged as suspicious", detected.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Seconds since start", int64(time.Since(s.appMetrics.started).Seconds()))

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// handleCategories lists the categories of one transaction type, or every
// catalog when no type is given.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("type"); v != "" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		NewResponse().JSON(map[string]any{"type": t, "categories": t.Categories()}).Write(w)
		return
	}
	NewResponse().JSON(map[string][]string{
		"income":  core.IncomeCategories,
		"expense": core.ExpenseCategories,
		"budget":  core.BudgetCategories,
	}).Write(w)
}
