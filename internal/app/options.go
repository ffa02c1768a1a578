package app

import (
	"time"

	"github.com/arianv/chatmend/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTopEmoji bounds the global emoji ranking.
func WithTopEmoji(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topEmoji = n
		}
	}
}

// WithTopWords bounds the word rankings.
func WithTopWords(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topWords = n
		}
	}
}

// WithIgnoreSenders excludes messages from the named senders. It replaces
// the default exclusion list.
func WithIgnoreSenders(senders []string) Option {
	return func(s *Service) {
		s.ignore = make(map[string]struct{}, len(senders))
		for _, sender := range senders {
			s.ignore[sender] = struct{}{}
		}
	}
}

// WithDateRange bounds the analysis window. start is inclusive, end is
// exclusive; a zero time leaves that side unbounded.
func WithDateRange(start, end time.Time) Option {
	return func(s *Service) {
		s.start = start
		s.end = end
	}
}

// WithClock overrides the wall clock used for run metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
