package stats

import (
	"testing"

	"github.com/gamehub-backend/internal/domain"
)

func TestComputeEmptyLibrary(t *testing.T) {
	update := Compute(nil, nil)
	if update != (domain.StatsUpdate{}) {
		t.Errorf("Compute with no games = %+v, want zero value", update)
	}
}

func TestComputePlatinumScenario(t *testing.T) {
	games := []domain.OwnedGame{
		{ExternalGameID: "10", TotalPlaytimeMinutes: 90, RecentPlaytimeMinutes: 30},
		{ExternalGameID: "20", TotalPlaytimeMinutes: 45},
	}
	summaries := []domain.GameAchievementSummary{
		{ExternalGameID: "10", TotalCount: 12, AchievedCount: 12},
		{ExternalGameID: "20", TotalCount: 30, AchievedCount: 7},
	}

	update := Compute(games, summaries)

	if update.TotalGames != 2 {
		t.Errorf("TotalGames = %d, want 2", update.TotalGames)
	}
	if update.RecentGames != 1 {
		t.Errorf("RecentGames = %d, want 1", update.RecentGames)
	}
	// 135 minutes floor to 2 hours
	if update.TotalHours != 2 {
		t.Errorf("TotalHours = %d, want 2", update.TotalHours)
	}
	// Tracked achievements, not just unlocked ones
	if update.TotalAchievements != 42 {
		t.Errorf("TotalAchievements = %d, want 42", update.TotalAchievements)
	}
	if update.TotalPlatinums != 1 {
		t.Errorf("TotalPlatinums = %d, want 1", update.TotalPlatinums)
	}
	if update.AvgPlatinumPercent != 50 {
		t.Errorf("AvgPlatinumPercent = %d, want 50", update.AvgPlatinumPercent)
	}
}

func TestComputeMinutesSummedBeforeDivision(t *testing.T) {
	// 55 + 50 minutes is 1 hour when summed first; summing per-game
	// floors would give 0
	games := []domain.OwnedGame{
		{ExternalGameID: "1", TotalPlaytimeMinutes: 55},
		{ExternalGameID: "2", TotalPlaytimeMinutes: 50},
	}

	update := Compute(games, nil)
	if update.TotalHours != 1 {
		t.Errorf("TotalHours = %d, want 1", update.TotalHours)
	}
}

func TestComputeZeroAchievementGameIsNotPlatinum(t *testing.T) {
	games := []domain.OwnedGame{{ExternalGameID: "1"}}
	summaries := []domain.GameAchievementSummary{
		{ExternalGameID: "1", TotalCount: 0, AchievedCount: 0},
	}

	update := Compute(games, summaries)
	if update.TotalPlatinums != 0 {
		t.Errorf("TotalPlatinums = %d, want 0 for a game without achievements", update.TotalPlatinums)
	}
	if update.AvgPlatinumPercent != 0 {
		t.Errorf("AvgPlatinumPercent = %d, want 0", update.AvgPlatinumPercent)
	}
}

func TestComputePlatinumPercentRounds(t *testing.T) {
	games := []domain.OwnedGame{
		{ExternalGameID: "1"},
		{ExternalGameID: "2"},
		{ExternalGameID: "3"},
	}
	summaries := []domain.GameAchievementSummary{
		{ExternalGameID: "1", TotalCount: 5, AchievedCount: 5},
	}

	// 1 of 3 is 33.3..., rounds to 33
	update := Compute(games, summaries)
	if update.AvgPlatinumPercent != 33 {
		t.Errorf("AvgPlatinumPercent = %d, want 33", update.AvgPlatinumPercent)
	}

	summaries = append(summaries, domain.GameAchievementSummary{ExternalGameID: "2", TotalCount: 8, AchievedCount: 8})

	// 2 of 3 is 66.6..., rounds to 67
	update = Compute(games, summaries)
	if update.AvgPlatinumPercent != 67 {
		t.Errorf("AvgPlatinumPercent = %d, want 67", update.AvgPlatinumPercent)
	}
}
