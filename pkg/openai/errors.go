package openai

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError wraps HTTP-level errors from the backend with a stable
// classification kind.
type APIError struct {
	StatusCode int
	Kind       string // "authentication_failed" | "billing_error" | "rate_limit" | "invalid_request" | "server_error" | "unknown"
	Message    string
	Retryable  bool
	RetryAfter time.Duration // from Retry-After header, if present
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

// ErrMaxRetriesExceeded is returned when all retry attempts are exhausted.
type ErrMaxRetriesExceeded struct {
	Attempts   int
	LastStatus int
}

func (e *ErrMaxRetriesExceeded) Error() string {
	return fmt.Sprintf("openai: max retries exceeded (%d attempts, last HTTP %d)", e.Attempts, e.LastStatus)
}

// classifyError maps a non-200 HTTP response to an APIError.
func classifyError(resp *http.Response) *APIError {
	bodyBytes, _ := io.ReadAll(resp.Body)
	msg := string(bodyBytes)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	kind, retryable := classifyStatus(resp.StatusCode)

	return &APIError{
		StatusCode: resp.StatusCode,
		Kind:       kind,
		Message:    msg,
		Retryable:  retryable,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// classifyStatus maps an HTTP status code to a classification kind and
// retryability.
func classifyStatus(statusCode int) (kind string, retryable bool) {
	switch statusCode {
	case 401:
		return "authentication_failed", false
	case 402, 403:
		return "billing_error", false
	case 400, 422:
		return "invalid_request", false
	case 429, 529:
		return "rate_limit", true
	case 500, 502, 503:
		return "server_error", true
	default:
		return "unknown", false
	}
}

// isRetryable checks if a status code is in the configured retry set.
func isRetryable(statusCode int, retryableStatuses []int) bool {
	for _, s := range retryableStatuses {
		if statusCode == s {
			return true
		}
	}
	return false
}

// parseRetryAfter parses the Retry-After header value.
// Supports both seconds (integer) and HTTP-date formats.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(value, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}
