// Package tmdb provides a client for TheMovieDB API, implementing the
// catalog's metadata gateway.
package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	defaultTimeout  = 15 * time.Second

	// TMDB allows roughly 40 requests per 10 seconds.
	defaultRatePerSecond = 4
	defaultBurst         = 4
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a rate-limited TMDB API client authenticated with a v4 read
// access token. The token is an explicit constructor argument; the client
// never reads the process environment.
type Client struct {
	token       string
	baseURL     string
	language    string
	httpClient  HTTPDoer
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// New creates a new TMDB client. An empty token is allowed at construction;
// calls will fail with ErrMissingToken.
func New(token string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		token:       token,
		baseURL:     defaultBaseURL,
		language:    defaultLanguage,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultBurst),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithBaseURL sets a custom base URL for the TMDB API.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithLanguage sets the language passed to every endpoint.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithRateLimiter sets a custom rate limiter.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.rateLimiter = limiter
		}
	}
}

// getJSON performs an authenticated GET against endpoint and decodes the
// response body into target. Failures are wrapped in *Error.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, target any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return wrapError(op, fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return wrapError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "op", op)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests:
		return wrapError(op, ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized:
		return wrapError(op, ErrUnauthorized)
	case resp.StatusCode >= 500:
		return wrapError(op, ErrServer)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return wrapError(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.UnmarshalRead(resp.Body, target); err != nil {
		return wrapError(op, fmt.Errorf("parse response: %w", err))
	}
	return nil
}
