package normalize

import "github.com/arianv/chatmend/pkg/logger"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for drop/skip debug logging.
func WithLogger(log logger.Logger) Option {
	return func(n *Normalizer) {
		if log != nil {
			n.log = log
		}
	}
}
