// Package model contains domain models passed between layers.
package model

// Reaction is a single reaction attached to a message. Emoji holds the
// post-repair grapheme cluster, never raw export bytes.
type Reaction struct {
	Actor string // display name of the reacting user
	Emoji string // reaction emoji, repaired
}

// Message is the canonical form of one export record. It is constructed by
// the normalizer and never mutated afterwards.
type Message struct {
	Sender    string     // display name, repaired
	Timestamp int64      // epoch milliseconds
	Body      string     // message text, repaired; empty when HasBody is false
	HasBody   bool       // false for non-text messages (media shares etc.)
	Reactions []Reaction // in export order
}
