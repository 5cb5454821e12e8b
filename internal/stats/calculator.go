// Package stats reduces a player's owned games and per-game achievement
// summaries into the aggregate numbers shown on a profile.
package stats

import (
	"math"

	"github.com/gamehub-backend/internal/domain"
)

// Compute derives aggregate statistics from already-fetched data. It is a
// pure function; persisting the result is the caller's decision.
//
// Hours are summed in minutes and divided once at the end, so per-game
// rounding never accumulates. TotalAchievements counts every tracked
// achievement, unlocked or not.
func Compute(games []domain.OwnedGame, summaries []domain.GameAchievementSummary) domain.StatsUpdate {
	var update domain.StatsUpdate
	update.TotalGames = len(games)

	var totalMinutes int64
	for _, g := range games {
		totalMinutes += g.TotalPlaytimeMinutes
		if g.RecentPlaytimeMinutes > 0 {
			update.RecentGames++
		}
	}
	update.TotalHours = int(totalMinutes / 60)

	for _, s := range summaries {
		update.TotalAchievements += s.TotalCount
		if s.Platinum() {
			update.TotalPlatinums++
		}
	}

	if update.TotalGames > 0 {
		pct := float64(update.TotalPlatinums) / float64(update.TotalGames) * 100
		update.AvgPlatinumPercent = int(math.Round(pct))
	}
	return update
}
