package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenExpired   = errors.New("access token expired")
	ErrUpstreamError  = errors.New("upstream error")
	ErrRateLimited    = errors.New("rate limited")
)

// codeTokenExpired is the error code the storefront API returns alongside a
// 401 when the access token is expired rather than invalid. The API client
// uses it to decide whether a refresh-and-retry is worth attempting.
const codeTokenExpired = "TOKEN_EXPIRED"

// APIError represents a structured error from the storefront API.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	StatusCode int           `json:"-"` // HTTP status, not serialized
	RetryAfter time.Duration `json:"-"` // Populated for rate-limit errors when known
	Err        error         `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTokenExpired reports whether err is the single condition the API client
// is allowed to transparently recover from: a 401 carrying TOKEN_EXPIRED.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 401 && apiErr.Code == codeTokenExpired
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for input rejected before it
// reaches the server. For server-side rejections use NewInvalidRequestError,
// which keeps the server's own text.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewInvalidRequestError creates a 4xx error carrying the server's message.
// The text is shown to shoppers verbatim, so callers must not decorate it.
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:       "INVALID_REQUEST",
		Message:    message,
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewUnauthorizedError creates a 401 error for auth failures.
func NewUnauthorizedError(reason string) *APIError {
	return &APIError{
		Code:       "UNAUTHORIZED",
		Message:    reason,
		StatusCode: 401,
		Err:        ErrUnauthorized,
	}
}

// NewTokenExpiredError creates the 401 the server sends for an expired
// access token. Distinct from NewUnauthorizedError so the refresh path can
// tell "expired, refreshable" apart from "rejected, terminal".
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:       codeTokenExpired,
		Message:    "access token expired",
		StatusCode: 401,
		Err:        ErrTokenExpired,
	}
}

// NewUpstreamError creates a 502 error for transport-level failures.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// NewRateLimitError creates a 429 error for rate limiting.
// retryAfter is zero when the server did not say when to come back.
func NewRateLimitError(service string, retryAfter time.Duration) *APIError {
	msg := fmt.Sprintf("%s rate limit exceeded, please retry later", service)
	if retryAfter > 0 {
		msg = fmt.Sprintf("%s rate limit exceeded, retry in %s", service, retryAfter)
	}
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    msg,
		StatusCode: 429,
		RetryAfter: retryAfter,
		Err:        ErrRateLimited,
	}
}

// UserMessage extracts the text worth showing a shopper from err.
// Server-provided messages (validation errors and friends) pass through
// verbatim; anything else collapses to the generic fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
