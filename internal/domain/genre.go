package domain

// GenreCount pairs a genre name with the number of titles carrying it.
// Genres are created implicitly during metadata import and never deleted;
// orphans simply report no associated titles.
type GenreCount struct {
	Name       string `json:"name"`
	TitleCount int    `json:"title_count"`
}
