package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/calculator"
	"fintrack/internal/core"
	"fintrack/internal/receipts"
	"fintrack/internal/services"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		JSON(map[string]int{"id": 7}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header not set")
	}
	if strings.TrimSpace(w.Body.String()) != `{"id":7}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		TriggerTransactionCreated(3, "2025-01-10").
		TriggerBudgetChanged(EventBudgetUpdated, 9).
		TriggerSuccessNotification("Saved").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &events); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, name := range []string{EventTransactionCreated, EventBudgetUpdated, "show-notification"} {
		if _, ok := events[name]; !ok {
			t.Errorf("HX-Trigger missing %q: %s", name, trigger)
		}
	}
	if !strings.Contains(trigger, `"date":"2025-01-10"`) || !strings.Contains(trigger, `"type":"success"`) {
		t.Errorf("HX-Trigger payload = %s", trigger)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
}

func TestResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Trigger(EventBudgetDeleted, nil).Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d", w.Code)
	}
	if got := w.Header().Get("HX-Trigger"); got != `{"budget:deleted":{}}` {
		t.Errorf("HX-Trigger = %q", got)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *ResponseBuilder
		want    int
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest},
		{"not found", NotFoundError("missing"), http.StatusNotFound},
		{"internal", InternalServerError("oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.want {
				t.Errorf("Status code = %d, want %d", w.Code, tt.want)
			}
			var body errorBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body.Error == "" {
				t.Errorf("error body = %+v, %v", body, err)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("get: %w", core.ErrNotFound), http.StatusNotFound},
		{receipts.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{receipts.ErrInvalidName, http.StatusBadRequest},
		{services.ErrNoFiles, http.StatusBadRequest},
		{errMalformedBody, http.StatusBadRequest},
		{errInvalidID, http.StatusBadRequest},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrInvalidRange, http.StatusUnprocessableEntity},
		{receipts.ErrUnsupportedType, http.StatusUnprocessableEntity},
		{calculator.ErrUnknownKey, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	writeError(w, r, errors.New("connection refused to 10.0.0.5"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Status code = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Errorf("internal error leaked: %s", w.Body.String())
	}
}
