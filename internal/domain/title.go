// Package domain defines the core entities of the watchlist catalog.
package domain

import "time"

// MediaType classifies a catalog entry.
type MediaType string

// Supported media types.
const (
	TypeMovie   MediaType = "movie"
	TypeShow    MediaType = "show"
	TypeYouTube MediaType = "youtube"
)

// Valid reports whether the media type is one of the supported values.
func (m MediaType) Valid() bool {
	switch m {
	case TypeMovie, TypeShow, TypeYouTube:
		return true
	}
	return false
}

// Title is one catalog entry.
// TitleNorm is the canonical comparison key and is unique across all titles;
// it is the sole dedup key for locally-added entries. ExternalID is set only
// for entries imported via the metadata provider, and (Type, ExternalID) is
// unique for non-nil external ids.
type Title struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TitleNorm      string    `json:"title_norm"`
	Type           MediaType `json:"type"`
	Seen           bool      `json:"seen"`
	ExternalID     *int64    `json:"external_id,omitempty"`
	Year           *int      `json:"year,omitempty"`
	RuntimeMinutes *int      `json:"runtime_minutes,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Genres         []string  `json:"genres"` // sorted by name, read-side denormalization
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Title) Touch() {
	t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
}
