// Package enrich joins per-game achievement state with schema metadata and
// global rarity. Per-game fetches fan out to a bounded worker pool; results
// are reassembled in input order.
package enrich

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/platform"
)

// Engine enriches a player's game list with achievement data. Schema and
// rarity support are discovered on the source by type assertion; a source
// without them still produces state-only results.
type Engine struct {
	source      platform.AchievementSource
	concurrency int
	logger      *slog.Logger
}

// New creates an enrichment engine over the given achievement source
func New(source platform.AchievementSource, concurrency int, logger *slog.Logger) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		source:      source,
		concurrency: concurrency,
		logger:      logger,
	}
}

// EnrichGames produces one summary per input game, in input order. A failed
// state fetch for one game yields a zero-achievement placeholder for that
// game instead of failing the batch; a failed schema fetch only drops the
// display fields. Returns an error only when the context is cancelled.
func (e *Engine) EnrichGames(ctx context.Context, identity domain.PlayerIdentity, games []domain.OwnedGame) ([]domain.GameAchievementSummary, error) {
	summaries := make([]domain.GameAchievementSummary, len(games))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i, game := range games {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, game domain.OwnedGame) {
			defer wg.Done()
			defer func() { <-sem }()
			summaries[i] = e.enrichGame(ctx, identity, game)
		}(i, game)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// enrichGame builds one game's summary: state fetch, schema join, counts
func (e *Engine) enrichGame(ctx context.Context, identity domain.PlayerIdentity, game domain.OwnedGame) domain.GameAchievementSummary {
	summary := domain.GameAchievementSummary{
		ExternalGameID: game.ExternalGameID,
		Name:           game.Name,
		Achievements:   []domain.EnrichedAchievement{},
	}

	states, err := e.source.GetAchievementState(ctx, identity, game.ExternalGameID)
	if err != nil {
		e.logger.Warn("achievement state fetch failed, emitting placeholder",
			"platform", identity.Platform,
			"game_id", game.ExternalGameID,
			"error", err,
		)
		return summary
	}

	schema := e.schemaLookup(ctx, identity, game.ExternalGameID)

	summary.Achievements = joinStates(states, schema, nil)
	summary.TotalCount = len(states)
	for _, s := range states {
		if s.Achieved {
			summary.AchievedCount++
		}
	}
	return summary
}

// RareAchievements returns the player's unlocked achievements whose global
// unlock percentage is strictly below threshold, in game order then state
// order. Games whose source exposes no rarity data contribute nothing.
func (e *Engine) RareAchievements(ctx context.Context, identity domain.PlayerIdentity, games []domain.OwnedGame, threshold float64) ([]domain.RareAchievement, error) {
	perGame := make([][]domain.RareAchievement, len(games))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i, game := range games {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, game domain.OwnedGame) {
			defer wg.Done()
			defer func() { <-sem }()
			perGame[i] = e.rareForGame(ctx, identity, game, threshold)
		}(i, game)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rare []domain.RareAchievement
	for _, batch := range perGame {
		rare = append(rare, batch...)
	}
	return rare, nil
}

func (e *Engine) rareForGame(ctx context.Context, identity domain.PlayerIdentity, game domain.OwnedGame, threshold float64) []domain.RareAchievement {
	provider, ok := e.source.(platform.RarityProvider)
	if !ok {
		return nil
	}

	states, err := e.source.GetAchievementState(ctx, identity, game.ExternalGameID)
	if err != nil {
		e.logger.Warn("achievement state fetch failed, skipping game",
			"platform", identity.Platform,
			"game_id", game.ExternalGameID,
			"error", err,
		)
		return nil
	}

	rarities, err := provider.GetGlobalRarity(ctx, identity, game.ExternalGameID)
	if err != nil {
		e.logger.Debug("global rarity fetch failed, skipping game",
			"platform", identity.Platform,
			"game_id", game.ExternalGameID,
			"error", err,
		)
		return nil
	}
	rarity := rarityLookup(rarities)

	schema := e.schemaLookup(ctx, identity, game.ExternalGameID)
	enriched := joinStates(states, schema, rarity)

	var rare []domain.RareAchievement
	for _, ach := range enriched {
		// Locked achievements are never rarity candidates; the threshold
		// itself is excluded (strictly below).
		if !ach.Achieved || ach.GlobalPercent == nil || *ach.GlobalPercent >= threshold {
			continue
		}
		rare = append(rare, domain.RareAchievement{
			ExternalGameID:      game.ExternalGameID,
			GameName:            game.Name,
			EnrichedAchievement: ach,
		})
	}
	return rare
}

// schemaLookup fetches the game's schema keyed by api name. A fetch failure
// degrades to an empty lookup so display fields go missing without
// suppressing achievement state.
func (e *Engine) schemaLookup(ctx context.Context, identity domain.PlayerIdentity, gameID string) map[string]domain.AchievementDefinition {
	provider, ok := e.source.(platform.SchemaProvider)
	if !ok {
		return nil
	}
	defs, err := provider.GetAchievementSchema(ctx, identity, gameID)
	if err != nil {
		e.logger.Debug("schema fetch failed, continuing without enrichment",
			"platform", identity.Platform,
			"game_id", gameID,
			"error", err,
		)
		return nil
	}
	lookup := make(map[string]domain.AchievementDefinition, len(defs))
	for _, d := range defs {
		lookup[d.APIName] = d
	}
	return lookup
}

// joinStates joins state entries against the schema and rarity lookups by
// exact api name. Unmatched schema entries are dropped; unmatched state
// entries keep their state fields with empty enrichment.
func joinStates(states []domain.AchievementState, schema map[string]domain.AchievementDefinition, rarity map[string]float64) []domain.EnrichedAchievement {
	enriched := make([]domain.EnrichedAchievement, 0, len(states))
	for _, s := range states {
		ach := domain.EnrichedAchievement{
			APIName:    s.APIName,
			Achieved:   s.Achieved,
			UnlockedAt: s.UnlockedAt,
		}
		if def, ok := schema[s.APIName]; ok {
			ach.DisplayName = def.DisplayName
			ach.Description = def.Description
			ach.IconURL = def.IconURL
			ach.IconGrayURL = def.IconGrayURL
		}
		if rarity != nil {
			if pct, ok := rarity[s.APIName]; ok {
				p := pct
				ach.GlobalPercent = &p
			}
		}
		enriched = append(enriched, ach)
	}
	return enriched
}

// rarityLookup indexes rarity entries by api name, first match wins on
// duplicates
func rarityLookup(rarities []domain.GlobalRarity) map[string]float64 {
	lookup := make(map[string]float64, len(rarities))
	for _, r := range rarities {
		if _, ok := lookup[r.APIName]; !ok {
			lookup[r.APIName] = r.GlobalPercent
		}
	}
	return lookup
}
