package domain

import "time"

// Platform identifies an upstream gaming platform
type Platform string

const (
	PlatformSteam Platform = "steam"
	PlatformXbox  Platform = "xbox"
	PlatformPSN   Platform = "psn"
)

// Valid reports whether the platform tag is one we aggregate for
func (p Platform) Valid() bool {
	switch p {
	case PlatformSteam, PlatformXbox, PlatformPSN:
		return true
	}
	return false
}

// PlayerIdentity is a platform tag plus the platform-specific identifier
// (steamid64, XUID, or PSN online ID). The identifier format is vendor
// territory; the core passes it through unvalidated.
type PlayerIdentity struct {
	Platform Platform `json:"platform"`
	ID       string   `json:"id"`
}

// OwnedGame is one title in a player's library on a single platform
type OwnedGame struct {
	ExternalGameID        string `json:"external_game_id"`
	Name                  string `json:"name"`
	IconURL               string `json:"icon_url,omitempty"`
	TotalPlaytimeMinutes  int64  `json:"total_playtime_minutes"`
	RecentPlaytimeMinutes int64  `json:"recent_playtime_minutes"`
}

// AchievementDefinition is one entry of a game's achievement schema,
// independent of any player's progress
type AchievementDefinition struct {
	APIName     string `json:"api_name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	IconGrayURL string `json:"icon_gray_url,omitempty"`
}

// AchievementState is a player's progress on a single achievement
type AchievementState struct {
	APIName    string     `json:"api_name"`
	Achieved   bool       `json:"achieved"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// GlobalRarity is the global unlock percentage for one achievement
type GlobalRarity struct {
	APIName       string  `json:"api_name"`
	GlobalPercent float64 `json:"global_percent"`
}

// EnrichedAchievement joins a player's achievement state with the game's
// schema entry and, when requested, the global unlock percentage. The
// enrichment fields stay empty when the schema fetch degraded.
type EnrichedAchievement struct {
	APIName       string     `json:"api_name"`
	DisplayName   string     `json:"display_name,omitempty"`
	Description   string     `json:"description,omitempty"`
	Achieved      bool       `json:"achieved"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
	IconURL       string     `json:"icon_url,omitempty"`
	IconGrayURL   string     `json:"icon_gray_url,omitempty"`
	GlobalPercent *float64   `json:"global_percent,omitempty"`
}

// GameAchievementSummary is the per-game result of the enrichment engine
type GameAchievementSummary struct {
	ExternalGameID string                `json:"external_game_id"`
	Name           string                `json:"name"`
	Achievements   []EnrichedAchievement `json:"achievements"`
	TotalCount     int                   `json:"total_count"`
	AchievedCount  int                   `json:"achieved_count"`
}

// Platinum reports whether every defined achievement of the game is unlocked
func (g GameAchievementSummary) Platinum() bool {
	return g.TotalCount > 0 && g.AchievedCount == g.TotalCount
}

// RareAchievement is an unlocked achievement whose global unlock percentage
// sits strictly below the caller's rarity threshold
type RareAchievement struct {
	ExternalGameID string `json:"external_game_id"`
	GameName       string `json:"game_name"`
	EnrichedAchievement
}

// DefaultRarityThreshold is the cutoff used when the caller supplies none
const DefaultRarityThreshold = 10.0
