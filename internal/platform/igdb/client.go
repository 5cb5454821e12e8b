// Package igdb is a catalog client for the IGDB v4 API. It has no player
// capabilities; the HTTP layer serves its results directly.
package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/metrics"
)

const imageBaseURL = "https://images.igdb.com/igdb/image/upload"

// Client is a rate-limited IGDB v4 client
type Client struct {
	clientID    string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates an IGDB client. Both credentials are opaque values
// obtained through the Twitch OAuth flow outside this backend.
func NewClient(cfg *config.IGDBConfig, logger *slog.Logger) *Client {
	return &Client{
		clientID:    cfg.ClientID,
		accessToken: cfg.AccessToken,
		baseURL:     cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// query POSTs an IGDB query-language body to an endpoint and decodes the
// response into target
func (c *Client) query(ctx context.Context, operation, endpoint, body string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("igdb rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("building igdb request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("igdb", operation, 0, started)
		return fmt.Errorf("igdb %s: %w: %v", operation, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("igdb", operation, resp.StatusCode, started)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("igdb %s: %w", operation, domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("igdb %s: %w: status %d", operation, domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("igdb %s: unexpected status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding igdb %s response: %w", operation, err)
	}
	return nil
}

// imageURL renders an IGDB image id at the given size preset
func imageURL(size, imageID string) string {
	return fmt.Sprintf("%s/%s/%s.jpg", imageBaseURL, size, imageID)
}
