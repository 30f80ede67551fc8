package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced in JSON error envelopes.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// ErrNotFound is returned by corpus lookups for unknown identifiers.
var ErrNotFound = errors.New("not found")

// InputError is a missing or malformed client parameter; handlers surface
// it as HTTP 400 with a terse message.
type InputError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for %q: %s", e.Field, e.Message)
}

// NewInputError creates an InputError for the given request field.
func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// UpstreamError is a non-2xx or transport failure from an external source.
// It never becomes the response status of /api/search; the orchestrator
// records it under sources.errors keyed by the source label.
type UpstreamError struct {
	Source     SourceName
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Source, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamStatusError reports a non-2xx HTTP status from a source.
func NewUpstreamStatusError(source SourceName, status int) *UpstreamError {
	return &UpstreamError{Source: source, StatusCode: status}
}

// NewUpstreamError wraps a transport or decoding failure from a source.
func NewUpstreamError(source SourceName, message string, err error) *UpstreamError {
	return &UpstreamError{Source: source, Message: message, Err: err}
}
