// Package xbox adapts the xbl.io Xbox Live API to the platform capability
// set. Achievement state, schema, and rarity all come from the per-title
// achievements endpoint, so the title list is filtered down to supported
// device classes before any per-title call is issued.
package xbox

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
)

// supportedDevices are the device classes included in aggregation. Titles
// exclusive to anything else never reach a per-title fetch.
var supportedDevices = map[string]bool{
	"PC":         true,
	"XboxSeries": true,
	"XboxOne":    true,
}

// Adapter implements the full platform capability set for Xbox Live
type Adapter struct {
	client *Client
	logger *slog.Logger
}

// NewAdapter creates the Xbox adapter
func NewAdapter(cfg *config.VendorConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: NewClient(cfg, logger),
		logger: logger,
	}
}

// Platform returns the platform tag
func (a *Adapter) Platform() domain.Platform {
	return domain.PlatformXbox
}

// ListOwnedGames returns the player's title history, filtered to supported
// device classes. Xbox does not report playtime minutes; a title played
// within the last two weeks counts as recent.
func (a *Adapter) ListOwnedGames(ctx context.Context, identity domain.PlayerIdentity) ([]domain.OwnedGame, error) {
	var resp titlesResponse
	path := fmt.Sprintf("/achievements/player/%s", url.PathEscape(identity.ID))
	if err := a.client.getJSON(ctx, "list_owned_games", path, &resp); err != nil {
		return nil, err
	}

	games := make([]domain.OwnedGame, 0, len(resp.Titles))
	for _, t := range resp.Titles {
		if !onSupportedDevice(t.Devices) {
			continue
		}
		games = append(games, domain.OwnedGame{
			ExternalGameID:        t.TitleID,
			Name:                  t.Name,
			IconURL:               t.DisplayImage,
			RecentPlaytimeMinutes: recentSignal(t.TitleHistory.LastTimePlayed),
		})
	}
	return games, nil
}

// GetAchievementState returns the player's progress for one title
func (a *Adapter) GetAchievementState(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementState, error) {
	achievements, err := a.fetchTitleAchievements(ctx, "get_achievement_state", identity.ID, gameID)
	if err != nil {
		return nil, err
	}

	states := make([]domain.AchievementState, 0, len(achievements))
	for _, ach := range achievements {
		state := domain.AchievementState{
			APIName:  ach.ID,
			Achieved: ach.ProgressState == "Achieved",
		}
		if state.Achieved {
			if t, err := time.Parse(time.RFC3339Nano, ach.Progression.TimeUnlocked); err == nil && t.Year() > 1 {
				utc := t.UTC()
				state.UnlockedAt = &utc
			}
		}
		states = append(states, state)
	}
	return states, nil
}

// GetAchievementSchema returns the display metadata for one title's
// achievements. Xbox only exposes the schema through the player-scoped
// endpoint, so the identity is required here.
func (a *Adapter) GetAchievementSchema(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.AchievementDefinition, error) {
	achievements, err := a.fetchTitleAchievements(ctx, "get_achievement_schema", identity.ID, gameID)
	if err != nil {
		return nil, err
	}

	defs := make([]domain.AchievementDefinition, 0, len(achievements))
	for _, ach := range achievements {
		desc := ach.Description
		if desc == "" {
			desc = ach.LockedDesc
		}
		defs = append(defs, domain.AchievementDefinition{
			APIName:     ach.ID,
			DisplayName: ach.Name,
			Description: desc,
			IconURL:     iconAsset(ach.MediaAssets),
		})
	}
	return defs, nil
}

// GetGlobalRarity returns the global unlock percentage per achievement
func (a *Adapter) GetGlobalRarity(ctx context.Context, identity domain.PlayerIdentity, gameID string) ([]domain.GlobalRarity, error) {
	achievements, err := a.fetchTitleAchievements(ctx, "get_global_rarity", identity.ID, gameID)
	if err != nil {
		return nil, err
	}

	rarities := make([]domain.GlobalRarity, 0, len(achievements))
	for _, ach := range achievements {
		rarities = append(rarities, domain.GlobalRarity{
			APIName:       ach.ID,
			GlobalPercent: ach.Rarity.CurrentPercentage,
		})
	}
	return rarities, nil
}

// ResolveIdentity resolves a gamertag to an XUID
func (a *Adapter) ResolveIdentity(ctx context.Context, gamertag string) (string, error) {
	p, err := a.searchPerson(ctx, "resolve_identity", gamertag)
	if err != nil {
		return "", err
	}
	return p.XUID, nil
}

// GetProfile returns the account's public profile by gamertag or XUID
func (a *Adapter) GetProfile(ctx context.Context, identity domain.PlayerIdentity) (*domain.PlatformProfile, error) {
	p, err := a.searchPerson(ctx, "get_profile", identity.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PlatformProfile{
		Platform:    domain.PlatformXbox,
		ID:          p.XUID,
		DisplayName: p.Gamertag,
		AvatarURL:   p.DisplayPicRaw,
		Region:      p.Location,
	}, nil
}

func (a *Adapter) searchPerson(ctx context.Context, operation, tag string) (*person, error) {
	var resp searchResponse
	path := fmt.Sprintf("/search/%s", url.PathEscape(tag))
	if err := a.client.getJSON(ctx, operation, path, &resp); err != nil {
		return nil, err
	}
	if len(resp.People) == 0 {
		return nil, fmt.Errorf("xbox account %q: %w", tag, domain.ErrNotFound)
	}
	return &resp.People[0], nil
}

func (a *Adapter) fetchTitleAchievements(ctx context.Context, operation, xuid, titleID string) ([]titleAchievement, error) {
	var resp titleAchievementsResponse
	path := fmt.Sprintf("/achievements/player/%s/title/%s", url.PathEscape(xuid), url.PathEscape(titleID))
	if err := a.client.getJSON(ctx, operation, path, &resp); err != nil {
		return nil, err
	}
	return resp.Achievements, nil
}

// onSupportedDevice reports whether the device list intersects the
// supported set
func onSupportedDevice(devices []string) bool {
	for _, d := range devices {
		if supportedDevices[d] {
			return true
		}
	}
	return false
}

// recentSignal maps lastTimePlayed into the recent-activity signal the
// stats calculator expects: nonzero when played within the last two weeks.
func recentSignal(lastTimePlayed string) int64 {
	t, err := time.Parse(time.RFC3339Nano, lastTimePlayed)
	if err != nil {
		return 0
	}
	if time.Since(t) <= 14*24*time.Hour {
		return 1
	}
	return 0
}

func iconAsset(assets []mediaAsset) string {
	for _, m := range assets {
		if m.Type == "Icon" {
			return m.URL
		}
	}
	if len(assets) > 0 {
		return assets[0].URL
	}
	return ""
}
