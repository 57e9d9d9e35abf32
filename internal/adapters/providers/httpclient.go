package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
)

// ClientConfig holds the retry and timeout policy for one upstream API.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	Backoff       time.Duration
	BackoffJitter time.Duration
}

// apiClient is a small GET-only JSON client with retry, exponential backoff
// and jitter. Both transport failures and non-2xx statuses are retried until
// MaxRetries attempts are exhausted.
type apiClient struct {
	config ClientConfig
	http   *http.Client
}

func newAPIClient(config ClientConfig) *apiClient {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &apiClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// getJSON performs a GET against path, decoding the response body into out.
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.buildURL(path)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		lastErr = c.fetchOnce(ctx, endpoint, query, out)
		if lastErr == nil {
			return nil
		}
		if attempt >= c.config.MaxRetries {
			break
		}

		delay := c.computeBackoff(attempt)
		slog.Warn("Upstream request failed, retrying",
			slog.String("url", endpoint),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", c.config.MaxRetries),
			slog.Duration("retry_in", delay),
			slog.String("error", lastErr.Error()))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", apperrors.ErrProvider, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: failed to fetch %s: %v", apperrors.ErrProvider, endpoint, lastErr)
}

func (c *apiClient) fetchOnce(ctx context.Context, endpoint string, query url.Values, out any) error {
	requestURL := endpoint
	if len(query) > 0 {
		requestURL = endpoint + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("server error %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("client error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	return nil
}

func (c *apiClient) computeBackoff(attempt int) time.Duration {
	base := c.config.Backoff * time.Duration(1<<(attempt-1))
	if c.config.BackoffJitter > 0 {
		jitter := time.Duration(rand.Int63n(int64(2*c.config.BackoffJitter))) - c.config.BackoffJitter
		base += jitter
	}
	if base < 0 {
		return 0
	}
	return base
}

func (c *apiClient) buildURL(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
