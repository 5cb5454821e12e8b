package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/gamehub-backend/internal/domain"
)

var testIdentity = domain.PlayerIdentity{Platform: domain.PlatformSteam, ID: "76561198000000000"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stateSource implements only achievement state fetches
type stateSource struct {
	states map[string][]domain.AchievementState
	errs   map[string]error
}

func (s *stateSource) GetAchievementState(_ context.Context, _ domain.PlayerIdentity, gameID string) ([]domain.AchievementState, error) {
	if err, ok := s.errs[gameID]; ok {
		return nil, err
	}
	return s.states[gameID], nil
}

// fullSource adds schema and rarity support on top of stateSource
type fullSource struct {
	stateSource
	schemas    map[string][]domain.AchievementDefinition
	schemaErrs map[string]error
	rarities   map[string][]domain.GlobalRarity
	rarityErrs map[string]error
}

func (s *fullSource) GetAchievementSchema(_ context.Context, _ domain.PlayerIdentity, gameID string) ([]domain.AchievementDefinition, error) {
	if err, ok := s.schemaErrs[gameID]; ok {
		return nil, err
	}
	return s.schemas[gameID], nil
}

func (s *fullSource) GetGlobalRarity(_ context.Context, _ domain.PlayerIdentity, gameID string) ([]domain.GlobalRarity, error) {
	if err, ok := s.rarityErrs[gameID]; ok {
		return nil, err
	}
	return s.rarities[gameID], nil
}

func gameList(n int) []domain.OwnedGame {
	games := make([]domain.OwnedGame, n)
	for i := range games {
		games[i] = domain.OwnedGame{
			ExternalGameID: fmt.Sprintf("game-%d", i),
			Name:           fmt.Sprintf("Game %d", i),
		}
	}
	return games
}

func TestEnrichGamesPreservesOrder(t *testing.T) {
	games := gameList(20)
	source := &stateSource{states: map[string][]domain.AchievementState{}}
	for _, g := range games {
		source.states[g.ExternalGameID] = []domain.AchievementState{
			{APIName: g.ExternalGameID + "_ACH", Achieved: true},
		}
	}

	engine := New(source, 4, testLogger())
	summaries, err := engine.EnrichGames(context.Background(), testIdentity, games)
	if err != nil {
		t.Fatalf("EnrichGames failed: %v", err)
	}
	if len(summaries) != len(games) {
		t.Fatalf("Expected %d summaries, got %d", len(games), len(summaries))
	}

	for i, s := range summaries {
		if s.ExternalGameID != games[i].ExternalGameID {
			t.Errorf("Summary %d is for %s, want %s", i, s.ExternalGameID, games[i].ExternalGameID)
		}
		if s.TotalCount != 1 || s.AchievedCount != 1 {
			t.Errorf("Summary %d counts = %d/%d, want 1/1", i, s.AchievedCount, s.TotalCount)
		}
	}
}

func TestEnrichGamesPlaceholderOnStateFailure(t *testing.T) {
	games := gameList(3)
	source := &stateSource{
		states: map[string][]domain.AchievementState{
			"game-0": {{APIName: "A", Achieved: true}, {APIName: "B", Achieved: false}},
			"game-2": {{APIName: "C", Achieved: true}},
		},
		errs: map[string]error{
			"game-1": domain.ErrUpstreamUnavailable,
		},
	}

	engine := New(source, 2, testLogger())
	summaries, err := engine.EnrichGames(context.Background(), testIdentity, games)
	if err != nil {
		t.Fatalf("EnrichGames failed: %v", err)
	}

	// The failing game keeps its slot with zero counts
	placeholder := summaries[1]
	if placeholder.ExternalGameID != "game-1" || placeholder.Name != "Game 1" {
		t.Errorf("Placeholder identity = %s/%s, want game-1/Game 1", placeholder.ExternalGameID, placeholder.Name)
	}
	if placeholder.TotalCount != 0 || placeholder.AchievedCount != 0 {
		t.Errorf("Placeholder counts = %d/%d, want 0/0", placeholder.AchievedCount, placeholder.TotalCount)
	}
	if placeholder.Achievements == nil || len(placeholder.Achievements) != 0 {
		t.Errorf("Placeholder achievements = %v, want empty slice", placeholder.Achievements)
	}

	// Neighbours are unaffected
	if summaries[0].TotalCount != 2 || summaries[0].AchievedCount != 1 {
		t.Errorf("Summary 0 counts = %d/%d, want 1/2", summaries[0].AchievedCount, summaries[0].TotalCount)
	}
	if summaries[2].TotalCount != 1 || summaries[2].AchievedCount != 1 {
		t.Errorf("Summary 2 counts = %d/%d, want 1/1", summaries[2].AchievedCount, summaries[2].TotalCount)
	}
}

func TestEnrichGamesSchemaJoin(t *testing.T) {
	games := gameList(1)
	source := &fullSource{
		stateSource: stateSource{
			states: map[string][]domain.AchievementState{
				"game-0": {
					{APIName: "WIN_ONE", Achieved: true},
					{APIName: "UNDOCUMENTED", Achieved: false},
				},
			},
		},
		schemas: map[string][]domain.AchievementDefinition{
			"game-0": {
				{APIName: "WIN_ONE", DisplayName: "First Victory", Description: "Win a match", IconURL: "http://icons/win.png"},
				{APIName: "ORPHANED", DisplayName: "Never Earned"},
			},
		},
	}

	engine := New(source, 1, testLogger())
	summaries, err := engine.EnrichGames(context.Background(), testIdentity, games)
	if err != nil {
		t.Fatalf("EnrichGames failed: %v", err)
	}

	achievements := summaries[0].Achievements
	if len(achievements) != 2 {
		t.Fatalf("Expected 2 achievements, got %d", len(achievements))
	}
	if achievements[0].DisplayName != "First Victory" || achievements[0].IconURL != "http://icons/win.png" {
		t.Errorf("Schema fields not joined: %+v", achievements[0])
	}
	// State entries without a schema match keep their state fields
	if achievements[1].APIName != "UNDOCUMENTED" || achievements[1].DisplayName != "" {
		t.Errorf("Unmatched state entry = %+v, want bare state fields", achievements[1])
	}
}

func TestEnrichGamesSchemaFailureDegrades(t *testing.T) {
	games := gameList(1)
	source := &fullSource{
		stateSource: stateSource{
			states: map[string][]domain.AchievementState{
				"game-0": {{APIName: "A", Achieved: true}},
			},
		},
		schemaErrs: map[string]error{
			"game-0": domain.ErrUpstreamUnavailable,
		},
	}

	engine := New(source, 1, testLogger())
	summaries, err := engine.EnrichGames(context.Background(), testIdentity, games)
	if err != nil {
		t.Fatalf("EnrichGames failed: %v", err)
	}

	// State survives, display fields are simply missing
	s := summaries[0]
	if s.TotalCount != 1 || s.AchievedCount != 1 {
		t.Errorf("Counts = %d/%d, want 1/1", s.AchievedCount, s.TotalCount)
	}
	if s.Achievements[0].DisplayName != "" {
		t.Errorf("Expected empty display name after schema failure, got %q", s.Achievements[0].DisplayName)
	}
}

func TestEnrichGamesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &stateSource{}
	engine := New(source, 2, testLogger())
	if _, err := engine.EnrichGames(ctx, testIdentity, gameList(5)); !errors.Is(err, context.Canceled) {
		t.Errorf("EnrichGames with cancelled context = %v, want context.Canceled", err)
	}
}

func TestRareAchievementsStrictThreshold(t *testing.T) {
	games := gameList(1)
	source := &fullSource{
		stateSource: stateSource{
			states: map[string][]domain.AchievementState{
				"game-0": {
					{APIName: "VERY_RARE", Achieved: true},
					{APIName: "AT_THRESHOLD", Achieved: true},
					{APIName: "COMMON", Achieved: true},
				},
			},
		},
		rarities: map[string][]domain.GlobalRarity{
			"game-0": {
				{APIName: "VERY_RARE", GlobalPercent: 9.9},
				{APIName: "AT_THRESHOLD", GlobalPercent: 10.0},
				{APIName: "COMMON", GlobalPercent: 63.2},
			},
		},
	}

	engine := New(source, 1, testLogger())
	rare, err := engine.RareAchievements(context.Background(), testIdentity, games, 10.0)
	if err != nil {
		t.Fatalf("RareAchievements failed: %v", err)
	}

	if len(rare) != 1 {
		t.Fatalf("Expected 1 rare achievement, got %d", len(rare))
	}
	if rare[0].APIName != "VERY_RARE" {
		t.Errorf("Rare achievement = %s, want VERY_RARE", rare[0].APIName)
	}
	if rare[0].GameName != "Game 0" {
		t.Errorf("Rare achievement game = %s, want Game 0", rare[0].GameName)
	}
	if rare[0].GlobalPercent == nil || *rare[0].GlobalPercent != 9.9 {
		t.Errorf("Rare achievement percent = %v, want 9.9", rare[0].GlobalPercent)
	}
}

func TestRareAchievementsExcludesLocked(t *testing.T) {
	games := gameList(1)
	source := &fullSource{
		stateSource: stateSource{
			states: map[string][]domain.AchievementState{
				"game-0": {{APIName: "LOCKED_RARE", Achieved: false}},
			},
		},
		rarities: map[string][]domain.GlobalRarity{
			"game-0": {{APIName: "LOCKED_RARE", GlobalPercent: 0.1}},
		},
	}

	engine := New(source, 1, testLogger())
	rare, err := engine.RareAchievements(context.Background(), testIdentity, games, 10.0)
	if err != nil {
		t.Fatalf("RareAchievements failed: %v", err)
	}
	if len(rare) != 0 {
		t.Errorf("Locked achievements must not be rarity candidates, got %d", len(rare))
	}
}

func TestRareAchievementsWithoutRarityProvider(t *testing.T) {
	games := gameList(2)
	source := &stateSource{
		states: map[string][]domain.AchievementState{
			"game-0": {{APIName: "A", Achieved: true}},
			"game-1": {{APIName: "B", Achieved: true}},
		},
	}

	engine := New(source, 2, testLogger())
	rare, err := engine.RareAchievements(context.Background(), testIdentity, games, 10.0)
	if err != nil {
		t.Fatalf("RareAchievements failed: %v", err)
	}
	if len(rare) != 0 {
		t.Errorf("Source without rarity support must contribute nothing, got %d", len(rare))
	}
}

func TestRareAchievementsSkipsFailingGame(t *testing.T) {
	games := gameList(2)
	source := &fullSource{
		stateSource: stateSource{
			states: map[string][]domain.AchievementState{
				"game-0": {{APIName: "A", Achieved: true}},
				"game-1": {{APIName: "B", Achieved: true}},
			},
		},
		rarities: map[string][]domain.GlobalRarity{
			"game-0": {{APIName: "A", GlobalPercent: 1.0}},
			"game-1": {{APIName: "B", GlobalPercent: 1.0}},
		},
		rarityErrs: map[string]error{
			"game-0": domain.ErrUpstreamUnavailable,
		},
	}

	engine := New(source, 1, testLogger())
	rare, err := engine.RareAchievements(context.Background(), testIdentity, games, 10.0)
	if err != nil {
		t.Fatalf("RareAchievements failed: %v", err)
	}
	if len(rare) != 1 || rare[0].APIName != "B" {
		t.Errorf("Expected only game-1's achievement, got %+v", rare)
	}
}

func TestRarityLookupDuplicateFirstWins(t *testing.T) {
	lookup := rarityLookup([]domain.GlobalRarity{
		{APIName: "DUP", GlobalPercent: 2.5},
		{APIName: "DUP", GlobalPercent: 80.0},
	})
	if lookup["DUP"] != 2.5 {
		t.Errorf("Duplicate api name resolved to %v, want first entry 2.5", lookup["DUP"])
	}
}
