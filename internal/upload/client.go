package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/ingest"
)

const maxAttempts = 3

// Client sends exports to the RepCoach server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the RepCoach server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendHAE POSTs a Health Auto Export JSON payload to the ingest endpoint.
func (c *Client) SendHAE(ctx context.Context, payload []byte) (*ingest.Result, error) {
	var result ingest.Result
	if err := c.post(ctx, "/api/v1/ingest", "application/json", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendAlpha POSTs an Alpha Progression CSV export.
func (c *Client) SendAlpha(ctx context.Context, csv []byte) (*ingest.Result, error) {
	var result ingest.Result
	if err := c.post(ctx, "/api/v1/ingest/alpha", "text/csv", csv, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CatalogueResult is the server's answer to a catalogue import.
type CatalogueResult struct {
	Imported int64 `json:"imported"`
	Skipped  []struct {
		Name   string `json:"name"`
		Reason string `json:"reason"`
	} `json:"skipped"`
}

// SendCatalogue POSTs a TOML exercise catalogue.
func (c *Client) SendCatalogue(ctx context.Context, toml []byte) (*CatalogueResult, error) {
	var result CatalogueResult
	if err := c.post(ctx, "/api/v1/exercises", "application/toml", toml, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post retries up to maxAttempts times with exponential backoff. Client
// errors other than 429 are not retried.
func (c *Client) post(ctx context.Context, path, contentType string, data []byte, out any) error {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding %s response: %w", path, err)
			}
			return nil
		}
		lastErr = fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, bytes.TrimSpace(body))
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return lastErr
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
