// Package platform defines the capability interfaces implemented by the
// upstream vendor adapters and the registry that selects an adapter by
// platform tag.
package platform

import (
	"context"

	"github.com/gamehub-backend/internal/domain"
)

// GameLister fetches a player's owned titles. An account with zero games
// yields an empty slice, not an error.
type GameLister interface {
	ListOwnedGames(ctx context.Context, identity domain.PlayerIdentity) ([]domain.OwnedGame, error)
}

// AchievementSource fetches a player's per-game achievement progress.
// Games without achievements yield an empty slice.
type AchievementSource interface {
	GetAchievementState(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementState, error)
}

// SchemaProvider fetches a game's achievement schema. The identity is
// passed along because some vendors only expose the schema through
// player-scoped endpoints; adapters that do not need it ignore it.
type SchemaProvider interface {
	GetAchievementSchema(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementDefinition, error)
}

// RarityProvider fetches global unlock percentages for a game's achievements
type RarityProvider interface {
	GetGlobalRarity(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.GlobalRarity, error)
}

// IdentityResolver resolves a human-facing alias (Steam vanity name, Xbox
// gamertag) to the canonical platform identifier
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, vanityOrTag string) (string, error)
}

// ProfileProvider fetches a normalized public profile for an identity
type ProfileProvider interface {
	GetProfile(ctx context.Context, identity domain.PlayerIdentity) (*domain.PlatformProfile, error)
}

// Adapter is the minimum capability set the enrichment engine needs.
// Schema and rarity support are optional and discovered by type assertion.
type Adapter interface {
	Platform() domain.Platform
	GameLister
	AchievementSource
}

// Registry holds one adapter per platform tag
type Registry struct {
	adapters map[domain.Platform]Adapter
}

// NewRegistry builds a registry from the given adapters
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[domain.Platform]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Platform()] = a
	}
	return &Registry{adapters: m}
}

// For returns the adapter for a platform tag
func (r *Registry) For(p domain.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return a, nil
}
