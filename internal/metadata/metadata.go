// Package metadata defines the provider-agnostic shapes the catalog engine
// consumes from a remote metadata service.
package metadata

import (
	"context"

	"github.com/watchlogapp/watchlog/internal/domain"
)

// Provider media kinds. These are the provider's vocabulary, not the
// catalog's; "tv" maps to domain.TypeShow on import.
const (
	KindMovie = "movie"
	KindTV    = "tv"
)

// Candidate is an unconfirmed search result pending the user's
// disambiguation choice.
type Candidate struct {
	MediaType string `json:"media_type"` // KindMovie or KindTV
	ID        int64  `json:"id"`         // provider id
	Title     string `json:"title"`
	Year      *int   `json:"year,omitempty"`
	Overview  string `json:"overview"`
}

// Canonical carries the resolved fields for a confirmed candidate, ready
// for a catalog insert.
type Canonical struct {
	Title          string
	Type           domain.MediaType
	ExternalID     int64
	Year           *int
	RuntimeMinutes *int
	Genres         []string
}

// Searcher is the narrow gateway interface the reconciliation flow depends
// on. Implementations wrap a concrete provider and surface configuration
// and transport failures as errors, never silently.
type Searcher interface {
	// SearchAny merges movie and series search results for a free-text
	// query, ranked by (popularity, vote count) descending, truncated to
	// limit.
	SearchAny(ctx context.Context, query string, limit int) ([]Candidate, error)

	// CanonicalFields resolves full details for a previously returned
	// candidate.
	CanonicalFields(ctx context.Context, c Candidate) (Canonical, error)
}
