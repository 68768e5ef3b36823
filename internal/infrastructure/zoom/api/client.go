// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the Zoom API: per-account token
// exchange and meeting lifecycle calls. It is transport only; retry and
// failover across accounts belong to the orchestrator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

const (
	// BaseURL is the base URL for the Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// AuthURL is the OAuth token endpoint
	AuthURL = "https://zoom.us/oauth/token"
	// DefaultClientTimeout bounds every HTTP call so that one stalled
	// provider request cannot block the failover loop indefinitely.
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration for transient transport failures
	DefaultMaxRetries        = 2
	DefaultInitialBackoff    = 500 * time.Millisecond
	DefaultMaxBackoff        = 5 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Client represents a Zoom API client shared by every pool account; the
// per-account credentials travel with each call.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Config holds the configuration for the Zoom client
type Config struct {
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override auth URL for testing
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// NewClient creates a new Zoom API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	// Network/connection errors are worth one more try
	if err != nil {
		return true
	}

	// Server errors (5xx) and rate limiting (429); client errors are final
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	return statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Add jitter (±25%) to prevent synchronized retries
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// doRequest performs a bearer-authenticated HTTP request to the Zoom API,
// retrying transient transport failures.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	url := c.config.BaseURL + path
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err == nil && !shouldRetry(resp.StatusCode, nil) {
			slog.DebugContext(ctx, "Zoom API request completed",
				"method", method,
				"path", path,
				"status", resp.StatusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			return resp, nil
		}

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
			lastErr = readErrorResponse(resp)
		} else {
			lastErr = err
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "Zoom API request failed, retrying",
				"method", method,
				"path", path,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				"backoff", backoff.String(),
				logging.ErrKey, lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		slog.ErrorContext(ctx, "Zoom API request failed after all retries",
			"method", method,
			"path", path,
			"status", statusCode,
			"attempts", attempt+1,
			logging.ErrKey, lastErr,
			logging.PriorityCritical())
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// readErrorResponse drains and closes an error response body, returning
// the parsed provider error.
func readErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return parseErrorResponse(resp.StatusCode, body)
}
