package source

import "errors"

// ErrNoFiles reports an input directory without any export files.
var ErrNoFiles = errors.New("no export files found")
