package repository

import (
	"context"
	"sort"
)

// RankStore implements Store over an in-memory count map, sorting on
// snapshot. One run's key space (distinct emoji or words) is small and
// queries happen once at assembly time, so there is no incremental index.
type RankStore struct {
	counts map[string]int
}

// NewRankStore creates an empty RankStore.
func NewRankStore(ctx context.Context, opts ...Option) *RankStore {
	s := &RankStore{
		counts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromCounts creates a RankStore seeded from an existing count map. The map
// is copied; later mutation of the argument does not affect the store.
func FromCounts(ctx context.Context, counts map[string]int) *RankStore {
	s := NewRankStore(ctx)
	for k, v := range counts {
		s.counts[k] = v
	}
	return s
}

// Add increases the count for key by n.
func (s *RankStore) Add(ctx context.Context, key string, n int) {
	if n != 0 {
		s.counts[key] += n
	}
}

// TopN returns the top-N entries with the deterministic tie-break:
// count desc, then key asc by code-point sequence. n == 0 returns all
// entries ranked.
func (s *RankStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 0 {
		return nil, ErrInvalidLimit
	}

	entries := make([]Entry, 0, len(s.counts))
	for k, c := range s.counts {
		entries = append(entries, Entry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		// Go string comparison is byte-wise over UTF-8, which orders by
		// code-point sequence.
		return entries[i].Key < entries[j].Key
	})

	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Best returns the single top entry.
func (s *RankStore) Best(ctx context.Context) (Entry, error) {
	if len(s.counts) == 0 {
		return Entry{}, ErrEmptyStore
	}
	top, err := s.TopN(ctx, 1)
	if err != nil {
		return Entry{}, err
	}
	return top[0], nil
}

// Count returns the number of distinct keys tracked.
func (s *RankStore) Count(ctx context.Context) int {
	return len(s.counts)
}
