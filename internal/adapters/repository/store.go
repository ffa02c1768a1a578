// Package repository defines the ranked tally store and errors.
package repository

import "context"

// Entry is one ranked row: a counted key (emoji grapheme or word) with its
// rank assigned at query time.
type Entry struct {
	Rank  int
	Key   string
	Count int
}

// Store provides read/write access to ranked counts.
type Store interface {
	// Add increases the count for key by n.
	Add(ctx context.Context, key string, n int)

	// TopN returns the top-N entries ordered by count desc, then key asc
	// by code-point sequence. Returns ErrInvalidLimit for n < 0.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Best returns the single top entry, or ErrEmptyStore.
	Best(ctx context.Context) (Entry, error)

	// Count returns the number of distinct keys tracked.
	Count(ctx context.Context) int
}
