package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/watchlogapp/watchlog/internal/metadata"
)

// rawSearchCap bounds how many raw results each endpoint contributes before
// the merged ranking is applied.
const rawSearchCap = 10

// ranked pairs a candidate with the popularity signals used for ordering.
type ranked struct {
	candidate  metadata.Candidate
	popularity float64
	voteCount  int
}

// SearchAny merges movie and TV search results for a free-text query,
// ranked by (popularity, vote count) descending, truncated to limit.
func (c *Client) SearchAny(ctx context.Context, query string, limit int) ([]metadata.Candidate, error) {
	if limit <= 0 {
		limit = 8
	}

	movies, err := c.searchMovies(ctx, query)
	if err != nil {
		return nil, err
	}
	shows, err := c.searchTV(ctx, query)
	if err != nil {
		return nil, err
	}

	merged := make([]ranked, 0, len(movies)+len(shows))

	for i, r := range movies {
		if i >= rawSearchCap || r.ID == 0 {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = "?"
		}
		merged = append(merged, ranked{
			candidate: metadata.Candidate{
				MediaType: metadata.KindMovie,
				ID:        r.ID,
				Title:     title,
				Year:      yearFromDate(r.ReleaseDate),
				Overview:  strings.TrimSpace(r.Overview),
			},
			popularity: r.Popularity,
			voteCount:  r.VoteCount,
		})
	}

	for i, r := range shows {
		if i >= rawSearchCap || r.ID == 0 {
			continue
		}
		title := strings.TrimSpace(r.Name)
		if title == "" {
			title = "?"
		}
		merged = append(merged, ranked{
			candidate: metadata.Candidate{
				MediaType: metadata.KindTV,
				ID:        r.ID,
				Title:     title,
				Year:      yearFromDate(r.FirstAirDate),
				Overview:  strings.TrimSpace(r.Overview),
			},
			popularity: r.Popularity,
			voteCount:  r.VoteCount,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].popularity != merged[j].popularity {
			return merged[i].popularity > merged[j].popularity
		}
		return merged[i].voteCount > merged[j].voteCount
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	candidates := make([]metadata.Candidate, len(merged))
	for i, m := range merged {
		candidates[i] = m.candidate
	}
	return candidates, nil
}

func (c *Client) searchMovies(ctx context.Context, query string) ([]rawMovieResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", c.language)

	endpoint := fmt.Sprintf("%s/search/movie?%s", c.baseURL, params.Encode())

	var resp movieSearchResponse
	if err := c.getJSON(ctx, "searchMovies", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) searchTV(ctx context.Context, query string) ([]rawTVResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", c.language)

	endpoint := fmt.Sprintf("%s/search/tv?%s", c.baseURL, params.Encode())

	var resp tvSearchResponse
	if err := c.getJSON(ctx, "searchTV", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// yearFromDate parses the year component from a "YYYY-MM-DD" date string.
// Returns nil when the leading four characters are not digits.
func yearFromDate(date string) *int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}
