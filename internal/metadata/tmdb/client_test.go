package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/metadata"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("test-token", testLogger(),
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
	return client, server
}

const searchFixture = `{
	"results": [
		{"id": 27205, "title": "Inception", "release_date": "2010-07-15",
		 "overview": "A thief who steals corporate secrets.",
		 "popularity": 90.5, "vote_count": 34000},
		{"id": 64688, "title": "Inception: The Cobol Job", "release_date": "2010-12-07",
		 "overview": "Prequel short.", "popularity": 12.1, "vote_count": 800}
	]
}`

const tvSearchFixture = `{
	"results": [
		{"id": 93405, "name": "Squid Game", "first_air_date": "2021-09-17",
		 "overview": "Players compete.", "popularity": 95.0, "vote_count": 14000}
	]
}`

func TestSearchAnyMergesAndRanks(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		switch r.URL.Path {
		case "/search/movie":
			w.Write([]byte(searchFixture))
		case "/search/tv":
			w.Write([]byte(tvSearchFixture))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}

	client, _ := newTestClient(t, handler)

	candidates, err := client.SearchAny(context.Background(), "inception", 8)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	// Ranked by popularity descending across both endpoints.
	if candidates[0].Title != "Squid Game" || candidates[0].MediaType != metadata.KindTV {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].Title != "Inception" || candidates[1].MediaType != metadata.KindMovie {
		t.Errorf("unexpected second candidate: %+v", candidates[1])
	}

	if candidates[1].Year == nil || *candidates[1].Year != 2010 {
		t.Errorf("expected year 2010, got %v", candidates[1].Year)
	}
}

func TestSearchAnyLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			w.Write([]byte(searchFixture))
		case "/search/tv":
			w.Write([]byte(tvSearchFixture))
		}
	}
	client, _ := newTestClient(t, handler)

	candidates, err := client.SearchAny(context.Background(), "inception", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Title != "Squid Game" {
		t.Errorf("expected top-ranked candidate, got %q", candidates[0].Title)
	}
}

func TestSearchAnySkipsMalformedResults(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			w.Write([]byte(`{"results": [
				{"id": 0, "title": "ghost"},
				{"id": 5, "title": "  ", "popularity": 1.0}
			]}`))
		case "/search/tv":
			w.Write([]byte(`{"results": []}`))
		}
	}
	client, _ := newTestClient(t, handler)

	candidates, err := client.SearchAny(context.Background(), "x", 8)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	// Zero-id results are dropped; blank titles fall back to a placeholder.
	if candidates[0].ID != 5 || candidates[0].Title != "?" {
		t.Errorf("unexpected candidate: %+v", candidates[0])
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}
			client, _ := newTestClient(t, handler)

			_, err := client.SearchAny(context.Background(), "x", 8)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var tmdbErr *Error
			if !errors.As(err, &tmdbErr) {
				t.Errorf("expected *Error wrapper, got %T", err)
			}
		})
	}
}

func TestMissingToken(t *testing.T) {
	client := New("", testLogger())

	_, err := client.SearchAny(context.Background(), "x", 8)
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestMovieCanonicalFields(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"title": "Inception",
			"release_date": "2010-07-15",
			"runtime": 148,
			"genres": [{"name": "Action"}, {"name": "Science Fiction"}]
		}`))
	}
	client, _ := newTestClient(t, handler)

	canonical, err := client.CanonicalFields(context.Background(), metadata.Candidate{
		MediaType: metadata.KindMovie,
		ID:        27205,
		Title:     "Inception",
	})
	if err != nil {
		t.Fatalf("canonical fields: %v", err)
	}
	if canonical.Type != domain.TypeMovie {
		t.Errorf("expected movie type, got %s", canonical.Type)
	}
	if canonical.ExternalID != 27205 {
		t.Errorf("expected external id 27205, got %d", canonical.ExternalID)
	}
	if canonical.Year == nil || *canonical.Year != 2010 {
		t.Errorf("expected year 2010, got %v", canonical.Year)
	}
	if canonical.RuntimeMinutes == nil || *canonical.RuntimeMinutes != 148 {
		t.Errorf("expected runtime 148, got %v", canonical.RuntimeMinutes)
	}
	if len(canonical.Genres) != 2 {
		t.Errorf("expected 2 genres, got %v", canonical.Genres)
	}
}

func TestTVCanonicalFields(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/93405" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"name": "Squid Game",
			"first_air_date": "2021-09-17",
			"episode_run_time": [54, 60],
			"genres": [{"name": "Drama"}]
		}`))
	}
	client, _ := newTestClient(t, handler)

	canonical, err := client.CanonicalFields(context.Background(), metadata.Candidate{
		MediaType: metadata.KindTV,
		ID:        93405,
		Title:     "Squid Game",
	})
	if err != nil {
		t.Fatalf("canonical fields: %v", err)
	}
	if canonical.Type != domain.TypeShow {
		t.Errorf("expected show type, got %s", canonical.Type)
	}
	// Series runtime comes from the first episode-runtime value.
	if canonical.RuntimeMinutes == nil || *canonical.RuntimeMinutes != 54 {
		t.Errorf("expected runtime 54, got %v", canonical.RuntimeMinutes)
	}
	if canonical.Year == nil || *canonical.Year != 2021 {
		t.Errorf("expected year 2021, got %v", canonical.Year)
	}
}

func TestTVCanonicalFieldsNoRuntime(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "X", "first_air_date": "", "episode_run_time": [], "genres": []}`))
	}
	client, _ := newTestClient(t, handler)

	canonical, err := client.CanonicalFields(context.Background(), metadata.Candidate{
		MediaType: metadata.KindTV,
		ID:        1,
	})
	if err != nil {
		t.Fatalf("canonical fields: %v", err)
	}
	if canonical.RuntimeMinutes != nil {
		t.Errorf("expected nil runtime, got %v", canonical.RuntimeMinutes)
	}
	if canonical.Year != nil {
		t.Errorf("expected nil year, got %v", canonical.Year)
	}
}

func TestCanonicalFieldsUnknownKind(t *testing.T) {
	client := New("test-token", testLogger())

	_, err := client.CanonicalFields(context.Background(), metadata.Candidate{
		MediaType: "podcast",
		ID:        1,
	})
	if err == nil {
		t.Fatal("expected error for unknown media type")
	}
}

func TestYearFromDate(t *testing.T) {
	tests := []struct {
		date string
		want *int
	}{
		{"2010-07-15", intp(2010)},
		{"1999", intp(1999)},
		{"", nil},
		{"abc-01-01", nil},
		{"20", nil},
	}
	for _, tt := range tests {
		got := yearFromDate(tt.date)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("yearFromDate(%q) = %d, want nil", tt.date, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("yearFromDate(%q) = %v, want %d", tt.date, got, *tt.want)
		}
	}
}

func intp(v int) *int { return &v }
