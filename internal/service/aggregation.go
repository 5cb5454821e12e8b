package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/enrich"
	"github.com/gamehub-backend/internal/metrics"
	"github.com/gamehub-backend/internal/platform"
	"github.com/gamehub-backend/internal/postgres"
	"github.com/gamehub-backend/internal/redis"
	"github.com/gamehub-backend/internal/stats"
	"github.com/gamehub-backend/internal/websocket"
)

// AggregationService orchestrates the vendor adapters, the enrichment
// engine, and the stats calculator
type AggregationService struct {
	registry    *platform.Registry
	repo        *postgres.Repository
	cache       *redis.Cache
	hub         *websocket.Hub
	concurrency int
	logger      *slog.Logger
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(
	registry *platform.Registry,
	repo *postgres.Repository,
	cache *redis.Cache,
	concurrency int,
	logger *slog.Logger,
) *AggregationService {
	return &AggregationService{
		registry:    registry,
		repo:        repo,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SetHub wires the WebSocket hub used to push stats updates
func (s *AggregationService) SetHub(hub *websocket.Hub) {
	s.hub = hub
}

// engineFor builds an enrichment engine over one platform's adapter
func (s *AggregationService) engineFor(p domain.Platform) (platform.Adapter, *enrich.Engine, error) {
	adapter, err := s.registry.For(p)
	if err != nil {
		return nil, nil, err
	}
	return adapter, enrich.New(adapter, s.concurrency, s.logger), nil
}

// Profile returns a platform profile, served from cache when fresh
func (s *AggregationService) Profile(ctx context.Context, identity domain.PlayerIdentity) (*domain.PlatformProfile, error) {
	if cached, err := s.cache.GetProfile(ctx, identity.Platform, identity.ID); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("profile cache read failed", "error", err)
	}

	adapter, err := s.registry.For(identity.Platform)
	if err != nil {
		return nil, err
	}
	provider, ok := adapter.(platform.ProfileProvider)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	profile, err := provider.GetProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	s.cache.SetProfile(ctx, identity, profile)
	return profile, nil
}

// ResolveIdentity resolves a vanity name or gamertag to the canonical
// platform identifier
func (s *AggregationService) ResolveIdentity(ctx context.Context, p domain.Platform, vanityOrTag string) (string, error) {
	if vanityOrTag == "" {
		return "", domain.ErrInvalidInput
	}
	adapter, err := s.registry.For(p)
	if err != nil {
		return "", err
	}
	resolver, ok := adapter.(platform.IdentityResolver)
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return resolver.ResolveIdentity(ctx, vanityOrTag)
}

// Library returns the player's owned games
func (s *AggregationService) Library(ctx context.Context, identity domain.PlayerIdentity) ([]domain.OwnedGame, error) {
	adapter, err := s.registry.For(identity.Platform)
	if err != nil {
		return nil, err
	}
	return adapter.ListOwnedGames(ctx, identity)
}

// Achievements returns one page of enriched per-game achievement
// summaries. The window is applied before any per-title fetch.
func (s *AggregationService) Achievements(ctx context.Context, identity domain.PlayerIdentity, page, limit int) ([]domain.GameAchievementSummary, error) {
	if err := enrich.ValidateWindow(page, limit); err != nil {
		return nil, err
	}

	adapter, engine, err := s.engineFor(identity.Platform)
	if err != nil {
		return nil, err
	}
	games, err := adapter.ListOwnedGames(ctx, identity)
	if err != nil {
		return nil, err
	}

	return engine.EnrichGames(ctx, identity, enrich.PageOf(games, page, limit))
}

// RareAchievements returns the player's unlocked achievements rarer than
// the threshold across the whole library
func (s *AggregationService) RareAchievements(ctx context.Context, identity domain.PlayerIdentity, threshold float64) ([]domain.RareAchievement, error) {
	if threshold <= 0 {
		threshold = domain.DefaultRarityThreshold
	}

	adapter, engine, err := s.engineFor(identity.Platform)
	if err != nil {
		return nil, err
	}
	games, err := adapter.ListOwnedGames(ctx, identity)
	if err != nil {
		return nil, err
	}

	return engine.RareAchievements(ctx, identity, games, threshold)
}

// ComputeStats derives aggregate statistics for an identity without
// persisting anything
func (s *AggregationService) ComputeStats(ctx context.Context, identity domain.PlayerIdentity) (domain.StatsUpdate, error) {
	adapter, engine, err := s.engineFor(identity.Platform)
	if err != nil {
		return domain.StatsUpdate{}, err
	}
	games, err := adapter.ListOwnedGames(ctx, identity)
	if err != nil {
		return domain.StatsUpdate{}, err
	}
	summaries, err := engine.EnrichGames(ctx, identity, games)
	if err != nil {
		return domain.StatsUpdate{}, err
	}
	return stats.Compute(games, summaries), nil
}

// RefreshStats recomputes an account's aggregate stats from the linked
// identity on the given platform and overwrites the persisted row. The
// stats row is the only thing the aggregation path ever writes.
func (s *AggregationService) RefreshStats(ctx context.Context, userID string, p domain.Platform, source string) (*domain.AggregateStats, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	platformID, ok := user.PlatformID(p)
	if !ok {
		return nil, fmt.Errorf("platform %s: %w", p, domain.ErrPlatformNotLinked)
	}

	identity := domain.PlayerIdentity{Platform: p, ID: platformID}
	update, err := s.ComputeStats(ctx, identity)
	if err != nil {
		metrics.StatsRefreshes.WithLabelValues(source, "error").Inc()
		return nil, err
	}

	saved, err := s.repo.SaveStats(ctx, userID, update)
	if err != nil {
		metrics.StatsRefreshes.WithLabelValues(source, "error").Inc()
		return nil, err
	}
	metrics.StatsRefreshes.WithLabelValues(source, "ok").Inc()

	if s.hub != nil {
		s.hub.BroadcastStatsUpdate(userID, saved)
	}
	s.logger.Info("stats refreshed",
		"user_id", userID,
		"platform", p,
		"total_games", saved.TotalGames,
		"total_platinums", saved.TotalPlatinums,
	)
	return saved, nil
}
