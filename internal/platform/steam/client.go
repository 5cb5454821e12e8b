package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/metrics"
)

const (
	ownedGamesEndpoint         = "/IPlayerService/GetOwnedGames/v1"
	playerAchievementsEndpoint = "/ISteamUserStats/GetPlayerAchievements/v1"
	schemaEndpoint             = "/ISteamUserStats/GetSchemaForGame/v2"
	globalPercentagesEndpoint  = "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v2"
	playerSummariesEndpoint    = "/ISteamUser/GetPlayerSummaries/v2"
	resolveVanityEndpoint      = "/ISteamUser/ResolveVanityURL/v1"
)

// Client is a rate-limited Steam Web API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Steam Web API client
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

// getJSON issues a GET against the Steam Web API and decodes the body into
// target. The API key and format parameters are appended to every call.
func (c *Client) getJSON(ctx context.Context, operation, endpoint string, params url.Values, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("steam rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("building steam request: %w", err)
	}
	q := req.URL.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", c.apiKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("steam", operation, 0, started)
		return fmt.Errorf("steam %s: %w: %v", operation, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("steam", operation, resp.StatusCode, started)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("steam %s: %w", operation, domain.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		// Steam answers 400 for titles without achievement stats; callers
		// that expect this decode the envelope themselves.
		return fmt.Errorf("steam %s: %w: status 400", operation, errNoStats)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("steam %s: %w: status %d", operation, domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("steam %s: unexpected status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding steam %s response: %w", operation, err)
	}
	return nil
}
