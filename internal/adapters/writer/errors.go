package writer

import "errors"

// ErrUnknownFormat reports an unsupported output format name.
var ErrUnknownFormat = errors.New("unknown output format")
