// Package http provides the JSON API of the finance tracker.
//
// This file holds the request parsing helpers shared by the handlers: a body
// parser that accepts JSON or form-encoded input, and query/path extraction.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// maxBodyBytes bounds non-multipart request bodies.
const maxBodyBytes = 64 << 10

var errMalformedBody = errors.New("malformed request body")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body of r once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("%w: larger than %d bytes", errMalformedBody, maxBodyBytes)
	}
	return p
}

// Parse parses the body as a JSON object when it looks like one, and as form
// data otherwise.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(trimmed, "{") || strings.Contains(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
			return p.err
		}
		return nil
	}

	var err error
	p.formData, err = url.ParseQuery(trimmed)
	if err != nil {
		p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body, even with an empty or
// null value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// IsNull reports whether key was explicitly set to JSON null.
func (p *RequestBodyParser) IsNull(key string) bool {
	if p.jsonData == nil {
		return false
	}
	v, ok := p.jsonData[key]
	return ok && v == nil
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// parseTransactionFilter reads from, to and type from the query string.
func parseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = &d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		f.To = &d
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	return f, f.Validate()
}

var errInvalidID = errors.New("invalid id")

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
