package domain

import "time"

// AggregateStats is the summary row persisted 1:1 with a user account.
// It is created zero-valued at registration and overwritten only by an
// explicit refresh.
type AggregateStats struct {
	UserID             string    `json:"user_id"`
	TotalGames         int       `json:"total_games"`
	TotalPlatinums     int       `json:"total_platinums"`
	RecentGames        int       `json:"recent_games"`
	TotalAchievements  int       `json:"total_achievements"`
	TotalHours         int       `json:"total_hours"`
	AvgPlatinumPercent int       `json:"avg_platinum_percent"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StatsUpdate lists exactly the fields a stats refresh may overwrite
type StatsUpdate struct {
	TotalGames         int
	TotalPlatinums     int
	RecentGames        int
	TotalAchievements  int
	TotalHours         int
	AvgPlatinumPercent int
}
