package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ClientConfig holds the HTTP-level configuration for one backend endpoint.
type ClientConfig struct {
	BaseURL    string // e.g. "https://api.openai.com/v1" or a proxy URL
	APIKey     string
	Headers    map[string]string // extra headers added to every request
	HTTPClient *http.Client
	Retry      RetryConfig
}

// client is the low-level HTTP transport shared by all Generator operations.
type client struct {
	cfg  ClientConfig
	http *http.Client
}

func newClient(cfg ClientConfig) *client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialBackoff == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	return &client{cfg: cfg, http: cfg.HTTPClient}
}

// post issues a JSON POST with retry and returns the raw 200 response.
// Non-200 responses are classified and returned as *APIError.
func (c *client) post(ctx context.Context, path string, payload any, streaming bool) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	url := c.cfg.BaseURL + path

	resp, err := doWithRetry(ctx, c.cfg.Retry, func(ctx context.Context) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		if streaming {
			httpReq.Header.Set("Accept", "text/event-stream")
		}
		if c.cfg.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		for k, v := range c.cfg.Headers {
			httpReq.Header.Set(k, v)
		}

		return c.http.Do(httpReq)
	})
	if err != nil {
		return nil, wrapTimeout(err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := classifyError(resp)
		resp.Body.Close()
		return nil, wrapTimeout(apiErr)
	}

	return resp, nil
}

// postJSON issues a JSON POST and decodes the 200 body into out.
func (c *client) postJSON(ctx context.Context, path string, payload, out any) error {
	resp, err := c.post(ctx, path, payload, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}
