// Package redis caches slow-changing vendor responses: IGDB catalog
// queries and platform profile lookups. Achievement state, schema, and
// rarity are deliberately never cached here; those are fetched fresh per
// aggregation request.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
)

// ErrCacheMiss is returned when a key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache provides Redis-based caching of vendor responses
type Cache struct {
	client     *redis.Client
	catalogTTL time.Duration
	profileTTL time.Duration
	logger     *slog.Logger
}

// NewCache creates a new Redis cache
func NewCache(cfg *config.RedisConfig, logger *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{
		client:     client,
		catalogTTL: cfg.CatalogTTL,
		profileTTL: cfg.ProfileTTL,
		logger:     logger,
	}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func catalogKey(query string) string {
	return fmt.Sprintf("catalog:%s", query)
}

func profileKey(platform domain.Platform, id string) string {
	return fmt.Sprintf("profile:%s:%s", platform, id)
}

// GetCatalog reads a cached catalog result into target
func (c *Cache) GetCatalog(ctx context.Context, query string, target any) error {
	return c.getJSON(ctx, catalogKey(query), target)
}

// SetCatalog stores a catalog result with the catalog TTL
func (c *Cache) SetCatalog(ctx context.Context, query string, value any) {
	c.setJSON(ctx, catalogKey(query), value, c.catalogTTL)
}

// GetProfile reads a cached platform profile
func (c *Cache) GetProfile(ctx context.Context, platform domain.Platform, id string) (*domain.PlatformProfile, error) {
	var profile domain.PlatformProfile
	if err := c.getJSON(ctx, profileKey(platform, id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile stores a platform profile with the profile TTL. The key is
// the identity the caller looked up, which for Xbox may be a gamertag
// rather than the canonical ID inside the profile.
func (c *Cache) SetProfile(ctx context.Context, identity domain.PlayerIdentity, profile *domain.PlatformProfile) {
	c.setJSON(ctx, profileKey(identity.Platform, identity.ID), profile, c.profileTTL)
}

func (c *Cache) getJSON(ctx context.Context, key string, target any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("reading cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding cache key %s: %w", key, err)
	}
	return nil
}

// setJSON writes best-effort; a failed cache write is logged, never
// surfaced to the caller
func (c *Cache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache value", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache value", "key", key, "error", err)
	}
}
