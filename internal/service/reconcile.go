// Package service orchestrates catalog operations for the presentation layer.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/metadata"
	"github.com/watchlogapp/watchlog/internal/store"
)

// OutcomeStatus discriminates the result of an add-or-show step.
// Consumers must handle every variant.
type OutcomeStatus string

// Outcome statuses.
const (
	StatusExists      OutcomeStatus = "exists"
	StatusNeedsChoice OutcomeStatus = "needs_choice"
	StatusAdded       OutcomeStatus = "added"
	StatusError       OutcomeStatus = "error"
)

// Outcome is the result of one step of the add-or-show flow.
// Which fields are set depends on Status: Title for Exists and Added,
// Candidates for NeedsChoice (possibly empty), Message for Error and as
// an advisory elsewhere.
type Outcome struct {
	Status     OutcomeStatus
	Title      *domain.Title
	Candidates []metadata.Candidate
	Message    string
}

// ErrNotConfigured indicates the metadata gateway is absent or missing
// credentials, so remote search cannot be attempted.
var ErrNotConfigured = errors.New("metadata gateway not configured")

const searchLimit = 8

// ReconcileService resolves a typed title to an existing local entry, a
// confirmed remote import, or a manual local-only entry. The Start/Confirm
// split lets the caller pause indefinitely for the user's disambiguation
// choice without holding any store lock; the only atomic unit is the final
// insert.
type ReconcileService struct {
	store   store.Store
	gateway metadata.Searcher // nil when no credentials are configured
	logger  *slog.Logger
}

// NewReconcileService creates a reconcile service. gateway may be nil; Start
// then reports an error outcome for unknown titles instead of searching.
func NewReconcileService(st store.Store, gateway metadata.Searcher, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{
		store:   st,
		gateway: gateway,
		logger:  logger,
	}
}

// Start begins the add-or-show flow for a typed title.
// A local match always short-circuits remote search: it avoids a redundant
// network call and respects a prior manual local-only entry.
func (s *ReconcileService) Start(ctx context.Context, typedTitle string) Outcome {
	existing, err := s.store.FindByNormalizedTitle(ctx, typedTitle)
	if err == nil {
		return Outcome{Status: StatusExists, Title: existing}
	}
	if !errors.Is(err, store.ErrNotFound) {
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	if s.gateway == nil {
		return Outcome{Status: StatusError, Message: ErrNotConfigured.Error()}
	}

	candidates, err := s.gateway.SearchAny(ctx, typedTitle, searchLimit)
	if err != nil {
		s.logger.Warn("metadata search failed", "title", typedTitle, "error", err)
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	if len(candidates) == 0 {
		return Outcome{
			Status:     StatusNeedsChoice,
			Candidates: []metadata.Candidate{},
			Message:    "no metadata results",
		}
	}

	return Outcome{Status: StatusNeedsChoice, Candidates: candidates}
}

// Confirm resolves the chosen candidate's canonical fields and finalizes the
// insert. Two concurrent confirms of the same remote item converge to one
// row; the loser observes Exists.
func (s *ReconcileService) Confirm(ctx context.Context, cand metadata.Candidate) Outcome {
	if s.gateway == nil {
		return Outcome{Status: StatusError, Message: ErrNotConfigured.Error()}
	}

	canonical, err := s.gateway.CanonicalFields(ctx, cand)
	if err != nil {
		s.logger.Warn("metadata details failed", "candidate_id", cand.ID, "error", err)
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	title, inserted, err := s.store.InsertFromMetadata(ctx, store.MetadataInsert{
		Title:          canonical.Title,
		Type:           canonical.Type,
		ExternalID:     canonical.ExternalID,
		Year:           canonical.Year,
		RuntimeMinutes: canonical.RuntimeMinutes,
		Genres:         canonical.Genres,
	})
	if err != nil {
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	if !inserted {
		return Outcome{Status: StatusExists, Title: title, Message: "already in your list"}
	}

	s.logger.Info("title added from metadata",
		"id", title.ID,
		"title", title.Title,
		"type", title.Type,
	)
	return Outcome{Status: StatusAdded, Title: title}
}

// AddLocal bypasses remote lookup entirely and inserts a local-only entry.
// Callers are expected to invoke it only after Start reported NeedsChoice;
// the uniqueness constraint still guards against duplicates either way.
func (s *ReconcileService) AddLocal(ctx context.Context, typedTitle string, mediaType domain.MediaType, notes string) (*domain.Title, error) {
	if !mediaType.Valid() {
		mediaType = domain.TypeMovie
	}
	title, err := s.store.InsertLocal(ctx, typedTitle, mediaType, notes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("title added locally", "id", title.ID, "title", title.Title, "type", title.Type)
	return title, nil
}
