package store

import "errors"

// Sentinel errors.
var (
	ErrNotFound = errors.New("store: entry not found or expired")
	ErrClosed   = errors.New("store: closed")
)
