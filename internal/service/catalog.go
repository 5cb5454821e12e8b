package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/platform/igdb"
	"github.com/gamehub-backend/internal/redis"
)

// defaultLookahead bounds the upcoming/anticipated release windows
const (
	defaultLookaheadDays  = 180
	defaultCatalogLimit   = 6
	anticipatedLookahead  = 365
	anticipatedListLength = 10
)

// CatalogService serves game discovery lists backed by the IGDB client,
// with a cache in front because the lists change slowly
type CatalogService struct {
	igdb   *igdb.Client
	cache  *redis.Cache
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client *igdb.Client, cache *redis.Cache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		igdb:   client,
		cache:  cache,
		logger: logger,
	}
}

// Trending returns recently released games with the most coverage
func (s *CatalogService) Trending(ctx context.Context) ([]domain.CatalogGame, error) {
	return s.cachedList(ctx, "trending", func(ctx context.Context) ([]domain.CatalogGame, error) {
		return s.igdb.TrendingGames(ctx)
	})
}

// Upcoming returns releases scheduled in the near future
func (s *CatalogService) Upcoming(ctx context.Context) ([]domain.CatalogGame, error) {
	return s.cachedList(ctx, "upcoming", func(ctx context.Context) ([]domain.CatalogGame, error) {
		return s.igdb.UpcomingGames(ctx, defaultLookaheadDays, defaultCatalogLimit)
	})
}

// Anticipated returns unreleased games ranked by hype
func (s *CatalogService) Anticipated(ctx context.Context) ([]domain.CatalogGame, error) {
	return s.cachedList(ctx, "anticipated", func(ctx context.Context) ([]domain.CatalogGame, error) {
		return s.igdb.AnticipatedGames(ctx, anticipatedLookahead, anticipatedListLength)
	})
}

// GameByID returns the full detail record for one game
func (s *CatalogService) GameByID(ctx context.Context, gameID int64) (*domain.GameDetail, error) {
	if gameID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	key := fmt.Sprintf("game:%d", gameID)
	var cached domain.GameDetail
	if err := s.cache.GetCatalog(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	detail, err := s.igdb.GameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s.cache.SetCatalog(ctx, key, detail)
	return detail, nil
}

func (s *CatalogService) cachedList(ctx context.Context, key string, fetch func(context.Context) ([]domain.CatalogGame, error)) ([]domain.CatalogGame, error) {
	var cached []domain.CatalogGame
	if err := s.cache.GetCatalog(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	games, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetCatalog(ctx, key, games)
	return games, nil
}
