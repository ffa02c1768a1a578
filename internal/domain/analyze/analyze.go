// Package analyze aggregates reaction and emoji usage over a message
// stream. The analyzer is stateful: Consume folds one message at a time,
// Snapshot returns the accumulated tally. Counts are commutative, so
// consumption order never changes the result.
package analyze

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arianv/chatmend/internal/domain/emoji"
	"github.com/arianv/chatmend/internal/domain/model"
	"github.com/arianv/chatmend/pkg/metrics"
)

// Tally is the read-only aggregation result. Emoji keys are repaired
// grapheme clusters (code-point sequences).
type Tally struct {
	// Emoji counts every emoji occurrence: reactions plus body emoji.
	Emoji map[string]int
	// ReactionsByActor counts reactions keyed by the reacting user, not
	// the message sender.
	ReactionsByActor map[string]map[string]int
	// MessagesBySender counts messages per sender.
	MessagesBySender map[string]int
	// BodyRunesBySender sums body lengths (in runes) per sender.
	BodyRunesBySender map[string]int
	// ReactionsReceivedBySender counts reactions on each sender's messages.
	ReactionsReceivedBySender map[string]int
	// Words counts body words globally; WordsBySender per sender.
	Words         map[string]int
	WordsBySender map[string]map[string]int
}

// Analyzer accumulates a Tally over consumed messages.
type Analyzer struct {
	tally Tally
}

// New constructs an empty Analyzer.
func New() *Analyzer {
	return &Analyzer{
		tally: Tally{
			Emoji:                     make(map[string]int),
			ReactionsByActor:          make(map[string]map[string]int),
			MessagesBySender:          make(map[string]int),
			BodyRunesBySender:         make(map[string]int),
			ReactionsReceivedBySender: make(map[string]int),
			Words:                     make(map[string]int),
			WordsBySender:             make(map[string]map[string]int),
		},
	}
}

// Consume folds one message into the tally.
func (a *Analyzer) Consume(msg model.Message) {
	t := &a.tally

	t.MessagesBySender[msg.Sender]++

	for _, r := range msg.Reactions {
		t.Emoji[r.Emoji]++
		byActor := t.ReactionsByActor[r.Actor]
		if byActor == nil {
			byActor = make(map[string]int)
			t.ReactionsByActor[r.Actor] = byActor
		}
		byActor[r.Emoji]++
		t.ReactionsReceivedBySender[msg.Sender]++
		metrics.RecordReactionCounted()
	}

	if !msg.HasBody {
		return
	}

	t.BodyRunesBySender[msg.Sender] += utf8.RuneCountInString(msg.Body)

	for _, cluster := range emoji.Clusters(msg.Body) {
		t.Emoji[cluster]++
	}

	for _, word := range wordsOf(msg.Body) {
		t.Words[word]++
		bySender := t.WordsBySender[msg.Sender]
		if bySender == nil {
			bySender = make(map[string]int)
			t.WordsBySender[msg.Sender] = bySender
		}
		bySender[word]++
	}
}

// Snapshot returns a copy of the accumulated tally. It is side-effect-free
// and may be called repeatedly; snapshots taken with no interleaved Consume
// calls are equal.
func (a *Analyzer) Snapshot() Tally {
	return Tally{
		Emoji:                     copyCounts(a.tally.Emoji),
		ReactionsByActor:          copyNested(a.tally.ReactionsByActor),
		MessagesBySender:          copyCounts(a.tally.MessagesBySender),
		BodyRunesBySender:         copyCounts(a.tally.BodyRunesBySender),
		ReactionsReceivedBySender: copyCounts(a.tally.ReactionsReceivedBySender),
		Words:                     copyCounts(a.tally.Words),
		WordsBySender:             copyNested(a.tally.WordsBySender),
	}
}

// wordsOf lowercases the body, strips everything but letters, digits and
// spaces, and splits on whitespace.
func wordsOf(body string) []string {
	var b strings.Builder
	b.Grow(len(body))
	for _, r := range strings.ToLower(body) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyNested(src map[string]map[string]int) map[string]map[string]int {
	dst := make(map[string]map[string]int, len(src))
	for k, v := range src {
		dst[k] = copyCounts(v)
	}
	return dst
}
