// Package store defines the persistence contract for the watchlist catalog.
package store

import (
	"context"

	"github.com/watchlogapp/watchlog/internal/domain"
)

// ListFilter narrows title listing and random selection.
// All set fields combine with AND semantics; filtering by genre or tag
// requires a matching association row.
type ListFilter struct {
	UnseenOnly bool
	Type       domain.MediaType // zero value matches all types
	Genre      string           // exact genre name
	Tag        string           // exact tag name
}

// MetadataInsert carries the canonical fields for a metadata-confirmed insert.
type MetadataInsert struct {
	Title          string
	Type           domain.MediaType
	ExternalID     int64
	Year           *int
	RuntimeMinutes *int
	Genres         []string
}

// Store is the catalog persistence contract. Every operation is a
// short-lived, self-contained unit of work; no transaction spans calls.
type Store interface {
	// FindByNormalizedTitle returns the title whose normalized key matches
	// the given free text exactly. Returns ErrNotFound on miss.
	FindByNormalizedTitle(ctx context.Context, text string) (*domain.Title, error)

	// FindByID returns a title by id. Returns ErrNotFound on miss.
	FindByID(ctx context.Context, id string) (*domain.Title, error)

	// FindByExternalID returns the title imported under the given provider
	// id and media type. Returns ErrNotFound on miss.
	FindByExternalID(ctx context.Context, externalID int64, mediaType domain.MediaType) (*domain.Title, error)

	// SearchByWords returns titles whose normalized title contains every
	// word of the normalized query as a substring, most recently updated
	// first, truncated to limit. An empty query yields no results.
	SearchByWords(ctx context.Context, text string, limit int) ([]*domain.Title, error)

	// InsertLocal creates a title with no provider linkage.
	// Returns ErrDuplicateTitle if the normalized key already exists.
	InsertLocal(ctx context.Context, title string, mediaType domain.MediaType, notes string) (*domain.Title, error)

	// InsertFromMetadata idempotently creates a title from canonical
	// provider fields, attaching its genre set in the same transaction.
	// If a title with the same (type, external id) or the same normalized
	// key already exists, the existing title is returned with inserted
	// false and nothing is mutated.
	InsertFromMetadata(ctx context.Context, in MetadataInsert) (title *domain.Title, inserted bool, err error)

	// SetSeen updates the seen flag and refreshes updated_at.
	// Returns ErrNotFound if the id does not exist.
	SetSeen(ctx context.Context, id string, seen bool) (*domain.Title, error)

	// DeleteTitle removes a title and cascades its genre and tag
	// associations. Deleting an absent id is a no-op.
	DeleteTitle(ctx context.Context, id string) error

	// ListTitles returns titles matching the filter, most recently updated
	// first, truncated to limit.
	ListTitles(ctx context.Context, filter ListFilter, limit int) ([]*domain.Title, error)

	// RandomTitle uniformly selects one title matching the same predicate
	// as ListTitles. Returns ErrNotFound when nothing matches.
	RandomTitle(ctx context.Context, filter ListFilter) (*domain.Title, error)

	// ListGenres returns genres with their title counts, sorted by name.
	ListGenres(ctx context.Context) ([]domain.GenreCount, error)

	// ListTags returns all tags sorted by name.
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// CreateTag creates a tag. Returns ErrDuplicateTag on a
	// case-insensitive name collision.
	CreateTag(ctx context.Context, name, color string) (*domain.Tag, error)

	// UpdateTag renames and/or recolors a tag. Returns ErrNotFound for an
	// unknown id and ErrDuplicateTag on collision with a different tag.
	UpdateTag(ctx context.Context, id, name, color string) error

	// DeleteTag removes a tag and cascades its title associations.
	// Deleting an absent id is a no-op.
	DeleteTag(ctx context.Context, id string) error

	// SetTitleTags replaces the full tag set of a title atomically.
	// Returns ErrNotFound for an unknown title.
	SetTitleTags(ctx context.Context, titleID string, tagIDs []string) error

	// GetTagsForTitle returns the tags on a title sorted by name.
	GetTagsForTitle(ctx context.Context, titleID string) ([]domain.TagRef, error)

	// GetTagsForTitles is the batched form of GetTagsForTitle.
	GetTagsForTitles(ctx context.Context, titleIDs []string) (map[string][]domain.TagRef, error)

	// Close releases the underlying database handle.
	Close() error
}
