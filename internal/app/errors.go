package app

import "errors"

// Sentinel kinds for run-level failures.
var (
	// ErrUnparsableFile marks one export file that could not be read or
	// parsed. It is logged and counted per file; a run only fails when
	// every file is unparsable.
	ErrUnparsableFile = errors.New("unparsable export file")

	// ErrEmptyResult reports a run that produced nothing: no export files,
	// or none of them parsable.
	ErrEmptyResult = errors.New("no parsable export files")
)
