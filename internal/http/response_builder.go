// This file implements a builder for JSON responses carrying HX-Trigger
// events, and the mapping from domain errors to HTTP statuses.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/calculator"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/receipts"
	"fintrack/internal/services"
)

// Event names sent in the HX-Trigger header after mutations.
const (
	EventTransactionCreated = "transaction:created"
	EventBudgetCreated      = "budget:created"
	EventBudgetUpdated      = "budget:updated"
	EventBudgetDeleted      = "budget:deleted"
	EventReceiptsUploaded   = "receipts:uploaded"
	EventReceiptDeleted     = "receipt:deleted"
	EventCalculatorChanged  = "calculator:changed"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       any
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data any) *ResponseBuilder {
	if data == nil {
		data = struct{}{}
	}
	b.triggers[name] = data
	return b
}

func (b *ResponseBuilder) TriggerTransactionCreated(id int64, date string) *ResponseBuilder {
	return b.Trigger(EventTransactionCreated, map[string]any{"id": id, "date": date})
}

func (b *ResponseBuilder) TriggerBudgetChanged(event string, id int64) *ResponseBuilder {
	return b.Trigger(event, map[string]int64{"id": id})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// TriggerNotification adds a show-notification event.
func (b *ResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *ResponseBuilder {
	return b.Trigger("show-notification", map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
}

func (b *ResponseBuilder) TriggerSuccessNotification(message string) *ResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode response", "component", "http", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// validationErrors are reported as 422 with their message.
var validationErrors = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrInvalidCategory,
	core.ErrInvalidType,
	core.ErrInvalidStatus,
	core.ErrEmptyEventName,
	core.ErrDescriptionLength,
	core.ErrInvalidRange,
	receipts.ErrUnsupportedType,
	calculator.ErrUnknownKey,
}

// statusFor maps an error returned by a service to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, receipts.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, receipts.ErrInvalidName),
		errors.Is(err, services.ErrNoFiles),
		errors.Is(err, errMalformedBody),
		errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes the mapped status. Internal errors are not
// echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, log.ComponentHTTP, r.Method+" "+r.URL.Path)
		msg = "internal error"
	}
	ErrorResponse(status, msg).Write(w)
}
