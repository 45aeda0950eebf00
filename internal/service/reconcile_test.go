package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/metadata"
	"github.com/watchlogapp/watchlog/internal/store"
	"github.com/watchlogapp/watchlog/internal/store/sqlite"
)

// fakeGateway is a scripted Searcher that records its calls.
type fakeGateway struct {
	candidates  []metadata.Candidate
	canonical   metadata.Canonical
	searchErr   error
	detailsErr  error
	searchCalls int
}

func (f *fakeGateway) SearchAny(ctx context.Context, query string, limit int) ([]metadata.Candidate, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.candidates, nil
}

func (f *fakeGateway) CanonicalFields(ctx context.Context, c metadata.Candidate) (metadata.Canonical, error) {
	if f.detailsErr != nil {
		return metadata.Canonical{}, f.detailsErr
	}
	return f.canonical, nil
}

func testStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testReconcile(t *testing.T, gw metadata.Searcher) (*ReconcileService, store.Store) {
	t.Helper()
	st := testStore(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewReconcileService(st, gw, logger), st
}

func yearPtr(v int) *int { return &v }

func TestStartExistingShortCircuits(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := testReconcile(t, gw)
	ctx := context.Background()

	existing, err := st.InsertLocal(ctx, "Inception", domain.TypeMovie, "")
	require.NoError(t, err)

	// A normalization-equivalent spelling finds the same entry and never
	// touches the gateway.
	outcome := svc.Start(ctx, "inception!!")
	assert.Equal(t, StatusExists, outcome.Status)
	require.NotNil(t, outcome.Title)
	assert.Equal(t, existing.ID, outcome.Title.ID)
	assert.Equal(t, 0, gw.searchCalls)
}

func TestStartNeedsChoice(t *testing.T) {
	gw := &fakeGateway{
		candidates: []metadata.Candidate{
			{MediaType: metadata.KindMovie, ID: 27205, Title: "Inception", Year: yearPtr(2010)},
		},
	}
	svc, _ := testReconcile(t, gw)

	outcome := svc.Start(context.Background(), "Inception")
	assert.Equal(t, StatusNeedsChoice, outcome.Status)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, "Inception", outcome.Candidates[0].Title)
	assert.Equal(t, 1, gw.searchCalls)
}

func TestStartNoResults(t *testing.T) {
	gw := &fakeGateway{candidates: []metadata.Candidate{}}
	svc, _ := testReconcile(t, gw)

	outcome := svc.Start(context.Background(), "zzzzz nothing")
	assert.Equal(t, StatusNeedsChoice, outcome.Status)
	assert.NotNil(t, outcome.Candidates)
	assert.Empty(t, outcome.Candidates)
	assert.NotEmpty(t, outcome.Message)
}

func TestStartSearchFailure(t *testing.T) {
	gw := &fakeGateway{searchErr: errors.New("boom")}
	svc, _ := testReconcile(t, gw)

	outcome := svc.Start(context.Background(), "Inception")
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "boom")
}

func TestStartNoGateway(t *testing.T) {
	svc, _ := testReconcile(t, nil)

	outcome := svc.Start(context.Background(), "Inception")
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "not configured")
}

func TestConfirmAddsTitle(t *testing.T) {
	cand := metadata.Candidate{MediaType: metadata.KindMovie, ID: 27205, Title: "Inception"}
	gw := &fakeGateway{
		candidates: []metadata.Candidate{cand},
		canonical: metadata.Canonical{
			Title:          "Inception",
			Type:           domain.TypeMovie,
			ExternalID:     27205,
			Year:           yearPtr(2010),
			RuntimeMinutes: yearPtr(148),
			Genres:         []string{"Action", "Science Fiction"},
		},
	}
	svc, _ := testReconcile(t, gw)
	ctx := context.Background()

	outcome := svc.Start(ctx, "Inception")
	require.Equal(t, StatusNeedsChoice, outcome.Status)

	confirmed := svc.Confirm(ctx, outcome.Candidates[0])
	assert.Equal(t, StatusAdded, confirmed.Status)
	require.NotNil(t, confirmed.Title)
	assert.Equal(t, "Inception", confirmed.Title.Title)
	require.NotNil(t, confirmed.Title.Year)
	assert.Equal(t, 2010, *confirmed.Title.Year)
	assert.Equal(t, []string{"Action", "Science Fiction"}, confirmed.Title.Genres)

	// A second Start for the same title now resolves locally.
	gw.searchCalls = 0
	again := svc.Start(ctx, "INCEPTION")
	assert.Equal(t, StatusExists, again.Status)
	assert.Equal(t, confirmed.Title.ID, again.Title.ID)
	assert.Equal(t, 0, gw.searchCalls)
}

func TestConfirmConvergesOnDuplicate(t *testing.T) {
	cand := metadata.Candidate{MediaType: metadata.KindMovie, ID: 27205, Title: "Inception"}
	gw := &fakeGateway{
		canonical: metadata.Canonical{
			Title:      "Inception",
			Type:       domain.TypeMovie,
			ExternalID: 27205,
		},
	}
	svc, _ := testReconcile(t, gw)
	ctx := context.Background()

	first := svc.Confirm(ctx, cand)
	require.Equal(t, StatusAdded, first.Status)

	second := svc.Confirm(ctx, cand)
	assert.Equal(t, StatusExists, second.Status)
	require.NotNil(t, second.Title)
	assert.Equal(t, first.Title.ID, second.Title.ID)
}

func TestConfirmDetailsFailure(t *testing.T) {
	gw := &fakeGateway{detailsErr: errors.New("details down")}
	svc, _ := testReconcile(t, gw)

	outcome := svc.Confirm(context.Background(), metadata.Candidate{
		MediaType: metadata.KindMovie, ID: 1, Title: "X",
	})
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "details down")
}

func TestAddLocal(t *testing.T) {
	svc, st := testReconcile(t, nil)
	ctx := context.Background()

	title, err := svc.AddLocal(ctx, "Some Obscure Film", domain.TypeMovie, "festival pick")
	require.NoError(t, err)
	assert.Equal(t, "Some Obscure Film", title.Title)
	assert.Equal(t, "festival pick", title.Notes)
	assert.Nil(t, title.ExternalID)

	// Invalid media types fall back to movie.
	title2, err := svc.AddLocal(ctx, "Another One", "vhs", "")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeMovie, title2.Type)

	// The uniqueness constraint still applies.
	_, err = svc.AddLocal(ctx, "some obscure FILM", domain.TypeMovie, "")
	assert.ErrorIs(t, err, store.ErrDuplicateTitle)

	found, err := st.FindByNormalizedTitle(ctx, "some obscure film")
	require.NoError(t, err)
	assert.Equal(t, title.ID, found.ID)
}
