package repository

import "errors"

// Sentinel kinds for ranked store errors.
var (
	ErrEmptyStore   = errors.New("store has no entries")
	ErrInvalidLimit = errors.New("invalid top-n limit")
)
