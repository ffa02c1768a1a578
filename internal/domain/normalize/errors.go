package normalize

import "errors"

// Sentinel kinds for normalization errors. These allow errors.Is from callers.
var (
	// ErrUnparsableExport marks a file that is not valid JSON or lacks the
	// expected top-level shape. The file is skipped; the run continues.
	ErrUnparsableExport = errors.New("unparsable export file")

	// ErrMalformedRecord marks a record missing a required field. The
	// record is dropped and counted; the file continues.
	ErrMalformedRecord = errors.New("malformed record")
)
