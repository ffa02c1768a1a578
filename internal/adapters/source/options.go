package source

import "github.com/arianv/chatmend/pkg/logger"

// Option applies a configuration option to the Dir source.
type Option func(*Dir)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Dir) {
		if log != nil {
			d.log = log
		}
	}
}
