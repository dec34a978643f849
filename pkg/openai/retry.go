package openai

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries        int           // max retry attempts (default: 3)
	InitialBackoff    time.Duration // initial backoff (default: 1s)
	MaxBackoff        time.Duration // backoff cap (default: 30s)
	BackoffFactor     float64       // multiplier per retry (default: 2.0)
	JitterFraction    float64       // random jitter as fraction of backoff (default: 0.1)
	RetryableStatuses []int         // HTTP codes to retry (default: 429, 529, 500, 502, 503)
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffFactor:     2.0,
		JitterFraction:    0.1,
		RetryableStatuses: []int{429, 529, 500, 502, 503},
	}
}

// doWithRetry executes makeRequest with retry logic for transient failures.
// Retries here cover transport-level flakiness only; timeout classification
// happens above this layer.
func doWithRetry(ctx context.Context, config RetryConfig, makeRequest func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastStatus int

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt-1))
			if backoff > float64(config.MaxBackoff) {
				backoff = float64(config.MaxBackoff)
			}
			jitter := backoff * config.JitterFraction * rand.Float64()
			sleepDur := time.Duration(backoff + jitter)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleepDur):
			}
		}

		resp, err := makeRequest(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Network-level errors are retryable
			lastStatus = 0
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		lastStatus = resp.StatusCode

		// Honor Retry-After (especially for 429) instead of the backoff curve
		if retryAfter := parseRetryAfter(resp.Header.Get("Retry-After")); retryAfter > 0 {
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryAfter):
			}
			continue
		}

		if !isRetryable(resp.StatusCode, config.RetryableStatuses) {
			return resp, nil // caller classifies the error
		}

		resp.Body.Close()
	}

	return nil, &ErrMaxRetriesExceeded{
		Attempts:   config.MaxRetries + 1,
		LastStatus: lastStatus,
	}
}
