package openai

import (
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code          int
		wantKind      string
		wantRetryable bool
	}{
		{401, "authentication_failed", false},
		{402, "billing_error", false},
		{403, "billing_error", false},
		{400, "invalid_request", false},
		{422, "invalid_request", false},
		{429, "rate_limit", true},
		{529, "rate_limit", true},
		{500, "server_error", true},
		{502, "server_error", true},
		{503, "server_error", true},
		{418, "unknown", false},
	}
	for _, tt := range tests {
		kind, retryable := classifyStatus(tt.code)
		if kind != tt.wantKind || retryable != tt.wantRetryable {
			t.Errorf("classifyStatus(%d) = (%q, %v), want (%q, %v)",
				tt.code, kind, retryable, tt.wantKind, tt.wantRetryable)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter(""); d != 0 {
		t.Errorf("empty header = %v, want 0", d)
	}
	if d := parseRetryAfter("7"); d != 7*time.Second {
		t.Errorf("seconds form = %v, want 7s", d)
	}

	future := time.Now().Add(30 * time.Second).UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
	if d := parseRetryAfter(future); d <= 0 || d > 31*time.Second {
		t.Errorf("http-date form = %v, want roughly 30s", d)
	}

	past := time.Now().Add(-time.Hour).UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
	if d := parseRetryAfter(past); d != 0 {
		t.Errorf("past date = %v, want 0", d)
	}
}

func TestIsRetryable(t *testing.T) {
	set := DefaultRetryConfig().RetryableStatuses
	for _, code := range []int{429, 529, 500, 502, 503} {
		if !isRetryable(code, set) {
			t.Errorf("%d should be retryable", code)
		}
	}
	for _, code := range []int{400, 401, 404} {
		if isRetryable(code, set) {
			t.Errorf("%d should not be retryable", code)
		}
	}
}
