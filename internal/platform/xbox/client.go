package xbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/metrics"
)

// Client is a rate-limited xbl.io API client. The API key travels in the
// X-Authorization header; identifiers are path segments.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an xbl.io client
func NewClient(cfg *config.VendorConfig, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// getJSON issues a GET against xbl.io and decodes the body into target
func (c *Client) getJSON(ctx context.Context, operation, path string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("xbox rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building xbox request: %w", err)
	}
	req.Header.Set("X-Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("xbox", operation, 0, started)
		return fmt.Errorf("xbox %s: %w: %v", operation, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("xbox", operation, resp.StatusCode, started)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("xbox %s: %w", operation, domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("xbox %s: %w: status %d", operation, domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("xbox %s: unexpected status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding xbox %s response: %w", operation, err)
	}
	return nil
}
