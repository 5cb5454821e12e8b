// Package psn adapts the PlayStation Network profile API. PSN does not
// expose achievement schemas or global rarity through this backend, so the
// adapter only provides identity resolution and profile lookups.
package psn

import (
	"bytes"
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

const universalSearchPath = "/api/search/v1/universalSearch"

// Adapter implements identity resolution and profile lookup for PSN
type Adapter struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewAdapter creates the PSN adapter. The access token is an opaque
// credential supplied by configuration.
func NewAdapter(cfg *config.VendorConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		accessToken: cfg.APIKey,
		baseURL:     cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// Platform returns the platform tag
func (a *Adapter) Platform() domain.Platform {
	return domain.PlatformPSN
}

// ListOwnedGames is not available through this backend's PSN surface
func (a *Adapter) ListOwnedGames(ctx context.Context, identity domain.PlayerIdentity) ([]domain.OwnedGame, error) {
	return nil, fmt.Errorf("psn library listing: %w", domain.ErrInvalidInput)
}

// GetAchievementState is not available through this backend's PSN surface
func (a *Adapter) GetAchievementState(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementState, error) {
	return nil, fmt.Errorf("psn achievement state: %w", domain.ErrInvalidInput)
}

// ResolveIdentity resolves an online ID to the numeric PSN account ID
func (a *Adapter) ResolveIdentity(ctx context.Context, onlineID string) (string, error) {
	meta, err := a.searchUser(ctx, "resolve_identity", onlineID)
	if err != nil {
		return "", err
	}
	return meta.AccountID, nil
}

// GetProfile returns the account's public profile by online ID
func (a *Adapter) GetProfile(ctx context.Context, identity domain.PlayerIdentity) (*domain.PlatformProfile, error) {
	meta, err := a.searchUser(ctx, "get_profile", identity.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PlatformProfile{
		Platform:    domain.PlatformPSN,
		ID:          meta.AccountID,
		DisplayName: meta.OnlineID,
		AvatarURL:   meta.AvatarURL,
		Region:      meta.Country,
	}, nil
}

// searchUser runs a universal search and returns the first exact
// online-ID match
func (a *Adapter) searchUser(ctx context.Context, operation, onlineID string) (*socialMetadata, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("psn rate limiter: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		SearchTerm:     onlineID,
		DomainRequests: []domainRequest{{Domain: "SocialAllAccounts"}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding psn search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+universalSearchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building psn request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.accessToken)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("psn", operation, 0, started)
		return nil, fmt.Errorf("psn %s: %w: %v", operation, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("psn", operation, resp.StatusCode, started)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("psn %s: %w", operation, domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("psn %s: %w: status %d", operation, domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("psn %s: unexpected status %d", operation, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding psn %s response: %w", operation, err)
	}

	for _, dr := range sr.DomainResponses {
		for _, result := range dr.Results {
			if strings.EqualFold(result.SocialMetadata.OnlineID, onlineID) {
				meta := result.SocialMetadata
				return &meta, nil
			}
		}
	}
	return nil, fmt.Errorf("psn account %q: %w", onlineID, domain.ErrNotFound)
}
