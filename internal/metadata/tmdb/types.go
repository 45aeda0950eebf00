package tmdb

// Raw API response types (internal).

type movieSearchResponse struct {
	Results []rawMovieResult `json:"results"`
}

type rawMovieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	VoteCount   int     `json:"vote_count"`
}

type tvSearchResponse struct {
	Results []rawTVResult `json:"results"`
}

type rawTVResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	Popularity   float64 `json:"popularity"`
	VoteCount    int     `json:"vote_count"`
}

type rawGenre struct {
	Name string `json:"name"`
}

type movieDetails struct {
	Title       string     `json:"title"`
	ReleaseDate string     `json:"release_date"`
	Runtime     int        `json:"runtime"`
	Genres      []rawGenre `json:"genres"`
}

type tvDetails struct {
	Name           string     `json:"name"`
	FirstAirDate   string     `json:"first_air_date"`
	EpisodeRunTime []int      `json:"episode_run_time"`
	Genres         []rawGenre `json:"genres"`
}
