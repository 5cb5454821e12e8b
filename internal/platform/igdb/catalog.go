package igdb

import (
	"context"
	"fmt"
	"time"

	"github.com/gamehub-backend/internal/domain"
)

// TrendingGames returns the top-rated games released in the last 30 days
func (c *Client) TrendingGames(ctx context.Context) ([]domain.CatalogGame, error) {
	now := time.Now().Unix()
	monthAgo := time.Now().AddDate(0, 0, -30).Unix()
	body := fmt.Sprintf(`
		fields name, cover.image_id, total_rating, total_rating_count, first_release_date;
		where cover != null
			& total_rating != null
			& first_release_date >= %d
			& first_release_date <= %d;
		sort total_rating_count desc;
		limit 6;`, monthAgo, now)

	var records []gameRecord
	if err := c.query(ctx, "trending_games", "/games", body, &records); err != nil {
		return nil, err
	}

	games := make([]domain.CatalogGame, 0, len(records))
	for _, g := range records {
		games = append(games, domain.CatalogGame{
			ID:          g.ID,
			Name:        g.Name,
			CoverURL:    coverURL(g.Cover),
			Rating:      g.TotalRating,
			RatingCount: g.TotalRatingCount,
			ReleaseDate: formatDate(g.FirstReleaseDate),
		})
	}
	return games, nil
}

// UpcomingGames returns releases scheduled within the next daysAhead days,
// de-duplicated by game ID (a game can carry one release date per region
// and platform)
func (c *Client) UpcomingGames(ctx context.Context, daysAhead, limit int) ([]domain.CatalogGame, error) {
	now := time.Now().Unix()
	future := time.Now().AddDate(0, 0, daysAhead).Unix()
	body := fmt.Sprintf(`
		fields date, game.id, game.name, game.cover.image_id;
		where date > %d
			& date <= %d
			& game != null;
		sort date asc;
		limit %d;`, now, future, limit)

	var records []releaseDateRecord
	if err := c.query(ctx, "upcoming_games", "/release_dates", body, &records); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(records))
	games := make([]domain.CatalogGame, 0, len(records))
	for _, r := range records {
		g := r.Game
		if g == nil || g.Cover == nil || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		games = append(games, domain.CatalogGame{
			ID:          g.ID,
			Name:        g.Name,
			CoverURL:    coverURL(g.Cover),
			ReleaseDate: formatDate(r.Date),
		})
	}
	return games, nil
}

// AnticipatedGames returns unreleased games sorted by hype count
func (c *Client) AnticipatedGames(ctx context.Context, daysAhead, limit int) ([]domain.CatalogGame, error) {
	now := time.Now().Unix()
	future := time.Now().AddDate(0, 0, daysAhead).Unix()
	body := fmt.Sprintf(`
		fields name, hypes, cover.image_id, first_release_date;
		where first_release_date > %d
			& first_release_date <= %d
			& hypes != null
			& cover != null;
		sort hypes desc;
		limit %d;`, now, future, limit)

	var records []gameRecord
	if err := c.query(ctx, "anticipated_games", "/games", body, &records); err != nil {
		return nil, err
	}

	games := make([]domain.CatalogGame, 0, len(records))
	for _, g := range records {
		games = append(games, domain.CatalogGame{
			ID:          g.ID,
			Name:        g.Name,
			CoverURL:    coverURL(g.Cover),
			Hypes:       g.Hypes,
			ReleaseDate: formatDate(g.FirstReleaseDate),
		})
	}
	return games, nil
}

// GameByID returns the full catalog record for one game
func (c *Client) GameByID(ctx context.Context, gameID int64) (*domain.GameDetail, error) {
	query := fmt.Sprintf(`
		fields name, summary, cover.image_id, first_release_date,
			genres.name, platforms.name, involved_companies.company.name,
			screenshots.*, similar_games.name, similar_games.cover.image_id;
		where id = %d;`, gameID)

	var records []gameRecord
	if err := c.query(ctx, "game_by_id", "/games", query, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("igdb game %d: %w", gameID, domain.ErrNotFound)
	}

	g := records[0]
	detail := &domain.GameDetail{
		ID:          g.ID,
		Name:        g.Name,
		Summary:     g.Summary,
		CoverURL:    coverURL(g.Cover),
		ReleaseDate: formatDate(g.FirstReleaseDate),
	}
	for _, genre := range g.Genres {
		detail.Genres = append(detail.Genres, genre.Name)
	}
	for _, p := range g.Platforms {
		detail.Platforms = append(detail.Platforms, p.Name)
	}
	for _, comp := range g.Companies {
		if comp.Company.Name != "" {
			detail.Companies = append(detail.Companies, comp.Company.Name)
		}
	}
	for _, s := range g.Screenshots {
		detail.Screenshots = append(detail.Screenshots, imageURL("t_1080p", s.ImageID))
	}
	for _, similar := range g.SimilarGames {
		sg := domain.CatalogGame{
			ID:   similar.ID,
			Name: similar.Name,
		}
		if similar.Cover != nil {
			sg.CoverURL = imageURL("t_cover_small", similar.Cover.ImageID)
		}
		detail.Similar = append(detail.Similar, sg)
	}
	return detail, nil
}

func coverURL(c *cover) string {
	if c == nil || c.ImageID == "" {
		return ""
	}
	return imageURL("t_cover_big", c.ImageID)
}

func formatDate(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}
