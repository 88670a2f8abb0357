package ignicult

import (
	"errors"
	"fmt"
)

// Sentinel errors for Ignicult API operations.
var (
	ErrNotFound    = errors.New("ignicult: not found")
	ErrRateLimited = errors.New("ignicult: rate limited by server")
	ErrBadRequest  = errors.New("ignicult: bad request")
	ErrServer      = errors.New("ignicult: server error")
	ErrMalformed   = errors.New("ignicult: malformed response")

	// ErrNoData means the request succeeded but carried nothing to show.
	ErrNoData = errors.New("ignicult: no data available")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // "topScores", "topGames", "monthlyActivity", "walletCount"
	Path   string
	Status int // HTTP status when one was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ignicult %s [%s %d]: %v", e.Op, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("ignicult %s [%s]: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, path string, status int, err error) error {
	return &Error{Op: op, Path: path, Status: status, Err: err}
}
