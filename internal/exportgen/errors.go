package exportgen

import "errors"

// ErrInvalidConfig reports non-positive generation parameters.
var ErrInvalidConfig = errors.New("invalid generation config")
