// Package quality tracks drop/skip accounting for a run. Counters are an
// explicit value threaded through the pipeline and merged per file; there is
// no hidden process-wide state.
package quality

// Counters accumulates data-quality events observed while normalizing.
type Counters struct {
	// TotalRecords counts every raw record seen, kept or not.
	TotalRecords int
	// DroppedRecords counts records dropped for a missing or unparsable
	// required field (sender, timestamp).
	DroppedRecords int
	// SkippedReactions counts reaction entries missing an actor or all
	// known emoji field names.
	SkippedReactions int
	// IgnoredMessages counts well-formed messages excluded by the sender
	// or date filters.
	IgnoredMessages int
	// UnparsableFiles counts input files skipped entirely.
	UnparsableFiles int
	// RepairedFields and PassthroughFields count codec repair outcomes.
	RepairedFields    int
	PassthroughFields int
}

// Merge adds other's counts into c.
func (c *Counters) Merge(other Counters) {
	c.TotalRecords += other.TotalRecords
	c.DroppedRecords += other.DroppedRecords
	c.SkippedReactions += other.SkippedReactions
	c.IgnoredMessages += other.IgnoredMessages
	c.UnparsableFiles += other.UnparsableFiles
	c.RepairedFields += other.RepairedFields
	c.PassthroughFields += other.PassthroughFields
}

// KeptRecords returns the number of records that survived normalization
// and filtering. The invariant kept + dropped + ignored == total holds for
// every run.
func (c Counters) KeptRecords() int {
	return c.TotalRecords - c.DroppedRecords - c.IgnoredMessages
}
