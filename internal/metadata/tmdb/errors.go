package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB operations.
var (
	// ErrMissingToken indicates the client was constructed without a v4
	// read access token. A configuration problem, not a transport one.
	ErrMissingToken = errors.New("tmdb: missing API read access token")

	ErrUnauthorized = errors.New("tmdb: token rejected")
	ErrRateLimited  = errors.New("tmdb: rate limited by server")
	ErrServer       = errors.New("tmdb: server error")
)

// Error wraps an underlying transport or protocol error with operation context.
type Error struct {
	Op  string // "searchMovies", "searchTV", "movieDetails", "tvDetails"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
