package domain

// CatalogGame is a game catalog entry returned by the IGDB-backed endpoints
type CatalogGame struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CoverURL    string  `json:"cover_url,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	RatingCount int     `json:"rating_count,omitempty"`
	Hypes       int     `json:"hypes,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// GameDetail is the full catalog record for a single game
type GameDetail struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Summary     string        `json:"summary,omitempty"`
	CoverURL    string        `json:"cover_url,omitempty"`
	ReleaseDate string        `json:"release_date,omitempty"`
	Genres      []string      `json:"genres,omitempty"`
	Platforms   []string      `json:"platforms,omitempty"`
	Companies   []string      `json:"companies,omitempty"`
	Screenshots []string      `json:"screenshots,omitempty"`
	Similar     []CatalogGame `json:"similar_games,omitempty"`
}

// PlatformProfile is a normalized vendor profile lookup result
type PlatformProfile struct {
	Platform    Platform `json:"platform"`
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	ProfileURL  string   `json:"profile_url,omitempty"`
	Region      string   `json:"region,omitempty"`
}
