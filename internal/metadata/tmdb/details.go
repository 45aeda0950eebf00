package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/metadata"
)

// CanonicalFields resolves full details for a previously returned candidate.
// For series, runtime is taken from the first reported episode-runtime value
// if present.
func (c *Client) CanonicalFields(ctx context.Context, cand metadata.Candidate) (metadata.Canonical, error) {
	switch cand.MediaType {
	case metadata.KindMovie:
		return c.movieCanonical(ctx, cand)
	case metadata.KindTV:
		return c.tvCanonical(ctx, cand)
	default:
		return metadata.Canonical{}, wrapError("canonicalFields",
			fmt.Errorf("unknown media type %q", cand.MediaType))
	}
}

func (c *Client) movieCanonical(ctx context.Context, cand metadata.Candidate) (metadata.Canonical, error) {
	params := url.Values{}
	params.Set("language", c.language)
	endpoint := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, cand.ID, params.Encode())

	var details movieDetails
	if err := c.getJSON(ctx, "movieDetails", endpoint, &details); err != nil {
		return metadata.Canonical{}, err
	}

	title := strings.TrimSpace(details.Title)
	if title == "" {
		title = cand.Title
	}

	var runtime *int
	if details.Runtime > 0 {
		r := details.Runtime
		runtime = &r
	}

	return metadata.Canonical{
		Title:          title,
		Type:           domain.TypeMovie,
		ExternalID:     cand.ID,
		Year:           yearFromDate(details.ReleaseDate),
		RuntimeMinutes: runtime,
		Genres:         genreNames(details.Genres),
	}, nil
}

func (c *Client) tvCanonical(ctx context.Context, cand metadata.Candidate) (metadata.Canonical, error) {
	params := url.Values{}
	params.Set("language", c.language)
	endpoint := fmt.Sprintf("%s/tv/%d?%s", c.baseURL, cand.ID, params.Encode())

	var details tvDetails
	if err := c.getJSON(ctx, "tvDetails", endpoint, &details); err != nil {
		return metadata.Canonical{}, err
	}

	title := strings.TrimSpace(details.Name)
	if title == "" {
		title = cand.Title
	}

	var runtime *int
	if len(details.EpisodeRunTime) > 0 && details.EpisodeRunTime[0] > 0 {
		r := details.EpisodeRunTime[0]
		runtime = &r
	}

	return metadata.Canonical{
		Title:          title,
		Type:           domain.TypeShow,
		ExternalID:     cand.ID,
		Year:           yearFromDate(details.FirstAirDate),
		RuntimeMinutes: runtime,
		Genres:         genreNames(details.Genres),
	}, nil
}

func genreNames(genres []rawGenre) []string {
	var names []string
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}
