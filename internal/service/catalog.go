package service

import (
	"context"
	"log/slog"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/store"
	"github.com/watchlogapp/watchlog/internal/validation"
)

// CatalogService exposes the catalog's query and command API to the
// presentation layer. All results are plain domain structs; no store
// handles leak to callers.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(st store.Store, v *validation.Validator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     st,
		validator: v,
		logger:    logger,
	}
}

// TagInput is the validated payload for tag create and update.
type TagInput struct {
	Name  string `validate:"required,max=64"`
	Color string `validate:"required,hexcolor"`
}

// ListTitles returns titles matching the filter, most recently updated first.
func (s *CatalogService) ListTitles(ctx context.Context, filter store.ListFilter, limit int) ([]*domain.Title, error) {
	if limit <= 0 {
		limit = 200
	}
	return s.store.ListTitles(ctx, filter, limit)
}

// Suggestions returns titles loosely matching the typed text, for
// autocomplete-style consumers.
func (s *CatalogService) Suggestions(ctx context.Context, typed string, limit int) ([]*domain.Title, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.store.SearchByWords(ctx, typed, limit)
}

// RandomTitle uniformly picks one title matching the filter.
// Returns store.ErrNotFound when nothing matches.
func (s *CatalogService) RandomTitle(ctx context.Context, filter store.ListFilter) (*domain.Title, error) {
	return s.store.RandomTitle(ctx, filter)
}

// GetTitle returns a title by id.
func (s *CatalogService) GetTitle(ctx context.Context, id string) (*domain.Title, error) {
	return s.store.FindByID(ctx, id)
}

// SetSeen updates a title's seen flag.
func (s *CatalogService) SetSeen(ctx context.Context, id string, seen bool) (*domain.Title, error) {
	title, err := s.store.SetSeen(ctx, id, seen)
	if err != nil {
		return nil, err
	}
	s.logger.Info("seen updated", "id", id, "seen", seen)
	return title, nil
}

// DeleteTitle removes a title and its associations.
func (s *CatalogService) DeleteTitle(ctx context.Context, id string) error {
	if err := s.store.DeleteTitle(ctx, id); err != nil {
		return err
	}
	s.logger.Info("title deleted", "id", id)
	return nil
}

// ListGenres returns genres with title counts, sorted by name.
func (s *CatalogService) ListGenres(ctx context.Context) ([]domain.GenreCount, error) {
	return s.store.ListGenres(ctx)
}

// ListTags returns all tags sorted by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// CreateTag creates a tag after validating its name and color.
func (s *CatalogService) CreateTag(ctx context.Context, name, color string) (*domain.Tag, error) {
	if err := s.validator.Validate(TagInput{Name: name, Color: color}); err != nil {
		return nil, err
	}
	tag, err := s.store.CreateTag(ctx, name, color)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// UpdateTag renames and/or recolors a tag.
func (s *CatalogService) UpdateTag(ctx context.Context, id, name, color string) error {
	if err := s.validator.Validate(TagInput{Name: name, Color: color}); err != nil {
		return err
	}
	return s.store.UpdateTag(ctx, id, name, color)
}

// DeleteTag removes a tag and its title associations.
func (s *CatalogService) DeleteTag(ctx context.Context, id string) error {
	return s.store.DeleteTag(ctx, id)
}

// SetTitleTags replaces the full tag set of a title.
func (s *CatalogService) SetTitleTags(ctx context.Context, titleID string, tagIDs []string) error {
	return s.store.SetTitleTags(ctx, titleID, tagIDs)
}

// GetTagsForTitle returns the tags on a title.
func (s *CatalogService) GetTagsForTitle(ctx context.Context, titleID string) ([]domain.TagRef, error) {
	return s.store.GetTagsForTitle(ctx, titleID)
}

// GetTagsForTitles is the batched form of GetTagsForTitle.
func (s *CatalogService) GetTagsForTitles(ctx context.Context, titleIDs []string) (map[string][]domain.TagRef, error) {
	return s.store.GetTagsForTitles(ctx, titleIDs)
}
