package model

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without wrapped error",
			err: &APIError{
				Code:    "TEST_ERROR",
				Message: "something went wrong",
			},
			want: "TEST_ERROR: something went wrong",
		},
		{
			name: "with wrapped error",
			err: &APIError{
				Code:    "TEST_ERROR",
				Message: "something went wrong",
				Err:     errors.New("underlying cause"),
			},
			want: "TEST_ERROR: something went wrong (underlying cause)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		sentinel error
		status   int
	}{
		{"not found", NewNotFoundError("product"), ErrNotFound, 404},
		{"validation", NewValidationError("quantity", "must be positive"), ErrInvalidRequest, 400},
		{"invalid request", NewInvalidRequestError("quantity exceeds available stock"), ErrInvalidRequest, 400},
		{"unauthorized", NewUnauthorizedError("bad credentials"), ErrUnauthorized, 401},
		{"token expired", NewTokenExpiredError(), ErrTokenExpired, 401},
		{"upstream", NewUpstreamError("storefront", errors.New("conn refused")), ErrUpstreamError, 502},
		{"rate limited", NewRateLimitError("storefront", 0), ErrRateLimited, 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", tt.err)
			}
			if tt.err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.status)
			}
		})
	}
}

func TestIsTokenExpired(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"token expired", NewTokenExpiredError(), true},
		{"wrapped token expired", fmt.Errorf("calling cart: %w", NewTokenExpiredError()), true},
		{"plain unauthorized", NewUnauthorizedError("nope"), false},
		{"expired code on wrong status", &APIError{Code: "TOKEN_EXPIRED", StatusCode: 400}, false},
		{"non-api error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenExpired(tt.err); got != tt.want {
				t.Errorf("IsTokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRateLimitError_RetryAfter(t *testing.T) {
	err := NewRateLimitError("storefront", 30*time.Second)
	if err.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", err.RetryAfter)
	}
	if err.Message != "storefront rate limit exceeded, retry in 30s" {
		t.Errorf("Message = %q", err.Message)
	}

	noReset := NewRateLimitError("storefront", 0)
	if noReset.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v, want 0", noReset.RetryAfter)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "server message passes through untouched",
			err:      NewInvalidRequestError("quantity exceeds available stock"),
			fallback: "Something went wrong",
			want:     "quantity exceeds available stock",
		},
		{
			name:     "validation message passes through",
			err:      NewValidationError("quantity", "exceeds stock"),
			fallback: "Something went wrong",
			want:     "invalid quantity: exceeds stock",
		},
		{
			name:     "wrapped validation message passes through",
			err:      fmt.Errorf("adding item: %w", NewValidationError("quantity", "exceeds stock")),
			fallback: "Something went wrong",
			want:     "invalid quantity: exceeds stock",
		},
		{
			name:     "server errors collapse to fallback",
			err:      NewInternalError(errors.New("pg down")),
			fallback: "Something went wrong",
			want:     "Something went wrong",
		},
		{
			name:     "transport errors collapse to fallback",
			err:      NewUpstreamError("storefront", errors.New("dial tcp: timeout")),
			fallback: "Something went wrong",
			want:     "Something went wrong",
		},
		{
			name:     "plain errors collapse to fallback",
			err:      errors.New("boom"),
			fallback: "Something went wrong",
			want:     "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, tt.fallback); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
