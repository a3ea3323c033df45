package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	m := NewMiddleware(func(*http.Request) string { return "203.0.113.9" }, log.New(log.Config{Output: &buf}))

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/budgets", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("unexpected request id %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Errorf("response header %q, want %q", rec.Header().Get(HeaderRequestID), seen)
	}
	if !strings.Contains(buf.String(), "status_code=418") || !strings.Contains(buf.String(), "client_ip=203.0.113.9") {
		t.Errorf("completion not logged: %q", buf.String())
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d", got)
	}
}

func TestMiddlewareHonoursIncomingID(t *testing.T) {
	m := NewMiddleware(nil, log.New(log.Config{Output: &bytes.Buffer{}}))
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Errorf("incoming id not kept: %q", rec.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "bad id with spaces")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.HasPrefix(rec.Header().Get(HeaderRequestID), "req_") {
		t.Errorf("invalid id should be replaced, got %q", rec.Header().Get(HeaderRequestID))
	}
	if got := m.GetMetrics().ServerErrors; got != 2 {
		t.Errorf("ServerErrors = %d, want 2", got)
	}
}
