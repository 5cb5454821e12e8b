// Package steam adapts the Steam Web API to the platform capability set.
// Steam supports the full set: owned games, per-game achievement state,
// per-game schema, global unlock percentages, and vanity URL resolution.
package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
)

// errNoStats marks Steam's 400 answer for titles without achievement stats
var errNoStats = errors.New("steam: no stats for title")

// Adapter implements the full platform capability set for Steam
type Adapter struct {
	client *Client
	logger *slog.Logger
}

// NewAdapter creates the Steam adapter
func NewAdapter(cfg *config.VendorConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: NewClient(cfg, logger),
		logger: logger,
	}
}

// Platform returns the platform tag
func (a *Adapter) Platform() domain.Platform {
	return domain.PlatformSteam
}

// ListOwnedGames returns the player's library with playtime, free games
// included. A private or empty library yields an empty slice.
func (a *Adapter) ListOwnedGames(ctx context.Context, identity domain.PlayerIdentity) ([]domain.OwnedGame, error) {
	params := url.Values{}
	params.Set("steamid", identity.ID)
	params.Set("include_appinfo", "true")
	params.Set("include_played_free_games", "true")

	var env ownedGamesEnvelope
	if err := a.client.getJSON(ctx, "list_owned_games", ownedGamesEndpoint, params, &env); err != nil {
		return nil, err
	}

	games := make([]domain.OwnedGame, 0, len(env.Response.Games))
	for _, g := range env.Response.Games {
		games = append(games, domain.OwnedGame{
			ExternalGameID:        strconv.FormatInt(g.AppID, 10),
			Name:                  g.Name,
			IconURL:               gameIconURL(g.AppID, g.ImgIconURL),
			TotalPlaytimeMinutes:  g.PlaytimeForever,
			RecentPlaytimeMinutes: g.Playtime2Weeks,
		})
	}
	return games, nil
}

// GetAchievementState returns the player's achievement progress for one
// title. Titles without achievement stats yield an empty slice.
func (a *Adapter) GetAchievementState(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementState, error) {
	params := url.Values{}
	params.Set("steamid", identity.ID)
	params.Set("appid", gameID)

	var env playerAchievementsEnvelope
	if err := a.client.getJSON(ctx, "get_achievement_state", playerAchievementsEndpoint, params, &env); err != nil {
		if errors.Is(err, errNoStats) {
			return []domain.AchievementState{}, nil
		}
		return nil, err
	}
	if !env.PlayerStats.Success {
		a.logger.Debug("steam reported no achievement stats",
			"steam_id", identity.ID,
			"app_id", gameID,
			"reason", env.PlayerStats.Error,
		)
		return []domain.AchievementState{}, nil
	}

	states := make([]domain.AchievementState, 0, len(env.PlayerStats.Achievements))
	for _, ach := range env.PlayerStats.Achievements {
		state := domain.AchievementState{
			APIName:  ach.APIName,
			Achieved: ach.Achieved == 1,
		}
		if ach.Achieved == 1 && ach.UnlockTime > 0 {
			t := time.Unix(ach.UnlockTime, 0).UTC()
			state.UnlockedAt = &t
		}
		states = append(states, state)
	}
	return states, nil
}

// GetAchievementSchema returns the title's achievement catalog. The player
// identity is not needed for Steam.
func (a *Adapter) GetAchievementSchema(ctx context.Context, _ domain.PlayerIdentity, gameID string) ([]domain.AchievementDefinition, error) {
	params := url.Values{}
	params.Set("appid", gameID)

	var env schemaEnvelope
	if err := a.client.getJSON(ctx, "get_achievement_schema", schemaEndpoint, params, &env); err != nil {
		if errors.Is(err, errNoStats) {
			return []domain.AchievementDefinition{}, nil
		}
		return nil, err
	}

	defs := make([]domain.AchievementDefinition, 0, len(env.Game.AvailableGameStats.Achievements))
	for _, s := range env.Game.AvailableGameStats.Achievements {
		defs = append(defs, domain.AchievementDefinition{
			APIName:     s.Name,
			DisplayName: s.DisplayName,
			Description: s.Description,
			IconURL:     s.Icon,
			IconGrayURL: s.IconGray,
		})
	}
	return defs, nil
}

// GetGlobalRarity returns the global unlock percentage per achievement
func (a *Adapter) GetGlobalRarity(ctx context.Context, _ domain.PlayerIdentity, gameID string) ([]domain.GlobalRarity, error) {
	params := url.Values{}
	params.Set("gameid", gameID)

	var env globalPercentagesEnvelope
	if err := a.client.getJSON(ctx, "get_global_rarity", globalPercentagesEndpoint, params, &env); err != nil {
		if errors.Is(err, errNoStats) {
			return []domain.GlobalRarity{}, nil
		}
		return nil, err
	}

	rarities := make([]domain.GlobalRarity, 0, len(env.AchievementPercentages.Achievements))
	for _, r := range env.AchievementPercentages.Achievements {
		rarities = append(rarities, domain.GlobalRarity{
			APIName:       r.Name,
			GlobalPercent: r.Percent,
		})
	}
	return rarities, nil
}

// ResolveIdentity resolves a vanity URL name to a steamid64
func (a *Adapter) ResolveIdentity(ctx context.Context, vanity string) (string, error) {
	params := url.Values{}
	params.Set("vanityurl", vanity)

	var env vanityEnvelope
	if err := a.client.getJSON(ctx, "resolve_identity", resolveVanityEndpoint, params, &env); err != nil {
		return "", err
	}
	// Steam signals "no match" with success == 42
	if env.Response.Success != 1 || env.Response.SteamID == "" {
		return "", fmt.Errorf("steam vanity %q: %w", vanity, domain.ErrNotFound)
	}
	return env.Response.SteamID, nil
}

// GetProfile returns the player's public summary
func (a *Adapter) GetProfile(ctx context.Context, identity domain.PlayerIdentity) (*domain.PlatformProfile, error) {
	params := url.Values{}
	params.Set("steamids", identity.ID)

	var env playerSummariesEnvelope
	if err := a.client.getJSON(ctx, "get_profile", playerSummariesEndpoint, params, &env); err != nil {
		return nil, err
	}
	if len(env.Response.Players) == 0 {
		return nil, fmt.Errorf("steam profile %q: %w", identity.ID, domain.ErrNotFound)
	}

	p := env.Response.Players[0]
	return &domain.PlatformProfile{
		Platform:    domain.PlatformSteam,
		ID:          p.SteamID,
		DisplayName: p.PersonaName,
		AvatarURL:   p.AvatarFull,
		ProfileURL:  p.ProfileURL,
		Region:      p.LocCountryCode,
	}, nil
}

func gameIconURL(appID int64, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg", appID, hash)
}
