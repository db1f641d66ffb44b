package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotConfigured = errors.New("provider is not configured")
	ErrUnauthorized  = errors.New("invalid credentials")
	ErrForbidden     = errors.New("access forbidden")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrNotFound      = errors.New("not found")
	ErrRemote        = errors.New("remote api error")
	ErrInvalidInput  = errors.New("invalid input")
)

// APIError is a non-2xx answer from a remote API.
type APIError struct {
	Provider   Type
	StatusCode int
	Body       string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s api error (%d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.kind }

// StatusHints carries the provider-specific wording for the mapped statuses.
type StatusHints struct {
	Unauthorized string
	Forbidden    string
	RateLimited  string
}

// ErrorFromStatus maps a failed response to the shared taxonomy. 401, 403 and
// 429 get their own kinds with readable messages; 404 maps to ErrNotFound so
// lookups can turn it into an absent result; everything else is ErrRemote and
// keeps the raw status and body.
func ErrorFromStatus(p Type, status int, body string, hints StatusHints) *APIError {
	e := &APIError{Provider: p, StatusCode: status, Body: strings.TrimSpace(body)}

	switch status {
	case http.StatusUnauthorized:
		e.kind = ErrUnauthorized
		e.Message = orDefault(hints.Unauthorized, fmt.Sprintf("%s: %s", p, ErrUnauthorized))
	case http.StatusForbidden:
		e.kind = ErrForbidden
		e.Message = orDefault(hints.Forbidden, fmt.Sprintf("%s: %s", p, ErrForbidden))
	case http.StatusTooManyRequests:
		e.kind = ErrRateLimited
		e.Message = orDefault(hints.RateLimited, fmt.Sprintf("%s: %s", p, ErrRateLimited))
	case http.StatusNotFound:
		e.kind = ErrNotFound
		e.Message = fmt.Sprintf("%s api error (%d): %s", p, status, e.Body)
	default:
		e.kind = ErrRemote
	}

	return e
}

// ConfigError reports missing configuration before any network attempt.
type ConfigError struct {
	Provider Type
	Missing  []string
	Hint     string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s provider selected but not configured: missing %s", e.Provider, strings.Join(e.Missing, ", "))
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return ErrNotConfigured }

// InvalidInput wraps a validation failure so it matches ErrInvalidInput.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
