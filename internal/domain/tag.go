package domain

import "time"

// Tag is a user-defined label for categorizing titles.
// Names are unique case-insensitively; Color is a "#RRGGBB" value.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagRef is the display pair attached to a title on the read side.
type TagRef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
