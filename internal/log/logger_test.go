package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentWorker, Output: &buf})

	l.Info("sweep done", "synced", 3)
	l.Debug("hidden")
	l.WithComponent(ComponentAMQP).Warn("reconnecting")

	out := buf.String()
	if !strings.Contains(out, "component=worker") || !strings.Contains(out, "synced=3") {
		t.Errorf("missing fields in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record should be filtered: %q", out)
	}
	if !strings.Contains(out, "component=amqp") {
		t.Errorf("WithComponent not applied: %q", out)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Component: ComponentHTTP, Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "handled")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("request id not logged: %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Errorf("expected fallback logger, got component %q", l.Component())
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))

	r := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
	sl.LogHTTPEnd(context.Background(), r, http.StatusUnprocessableEntity, 12, "10.0.0.1")
	sl.LogTransactionRecorded(context.Background(), 7, "expense", "Event Costs", "12.50")
	sl.LogError(context.Background(), "boom", errors.New("disk full"), ComponentStorage, OpCreate)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status_code=422", "transaction_id=7", `error="disk full"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
