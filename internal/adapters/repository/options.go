package repository

// Option applies a configuration option to the RankStore.
type Option func(*RankStore)

// WithInitialCapacity pre-sizes the underlying count map.
func WithInitialCapacity(n int) Option {
	return func(s *RankStore) {
		if n > 0 {
			s.counts = make(map[string]int, n)
		}
	}
}
