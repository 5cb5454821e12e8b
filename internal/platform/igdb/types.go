package igdb

// Wire shapes for the IGDB v4 API. Queries are written in IGDB's
// query language and POSTed as the request body.

type cover struct {
	ImageID string `json:"image_id"`
}

type named struct {
	Name string `json:"name"`
}

type involvedCompany struct {
	Company named `json:"company"`
}

type screenshot struct {
	ImageID string `json:"image_id"`
}

type gameRecord struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Summary          string            `json:"summary"`
	Cover            *cover            `json:"cover"`
	TotalRating      float64           `json:"total_rating"`
	TotalRatingCount int               `json:"total_rating_count"`
	Hypes            int               `json:"hypes"`
	FirstReleaseDate int64             `json:"first_release_date"`
	Genres           []named           `json:"genres"`
	Platforms        []named           `json:"platforms"`
	Companies        []involvedCompany `json:"involved_companies"`
	Screenshots      []screenshot      `json:"screenshots"`
	SimilarGames     []gameRecord      `json:"similar_games"`
}

type releaseDateRecord struct {
	Date int64 `json:"date"`
	Game *struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Cover *cover `json:"cover"`
	} `json:"game"`
}
