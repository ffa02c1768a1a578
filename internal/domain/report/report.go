// Package report folds normalized messages, the emoji tally, and quality
// accounting into the run's terminal artifact. Assemble is a pure function:
// equal inputs produce byte-identical reports, with ordering fixed by the
// ranked store's tie-break (count desc, then code-point sequence asc).
package report

import (
	"context"

	"github.com/arianv/chatmend/internal/adapters/repository"
	"github.com/arianv/chatmend/internal/domain/analyze"
	"github.com/arianv/chatmend/internal/domain/model"
	"github.com/arianv/chatmend/internal/domain/quality"
)

// Default ranking depths, matching the original analysis tool.
const (
	defaultTopEmoji = 10
	defaultTopWords = 25
)

// EmojiCount is one ranked emoji row.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// WordCount is one ranked word row.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SenderSummary aggregates one sender's activity.
type SenderSummary struct {
	Messages          int         `json:"messages"`
	BodyRunes         int         `json:"body_runes"`
	ReactionsReceived int         `json:"reactions_received"`
	TopWords          []WordCount `json:"top_words,omitempty"`
}

// Quality is the data-quality section surfaced to report consumers so that
// downstream statistics are verifiable (message_count excludes exactly
// DroppedRecords + IgnoredMessages of TotalRecords).
type Quality struct {
	TotalRecords      int `json:"total_records"`
	DroppedRecords    int `json:"dropped_records"`
	SkippedReactions  int `json:"skipped_reactions"`
	IgnoredMessages   int `json:"ignored_messages"`
	UnparsableFiles   int `json:"unparsable_files"`
	RepairedFields    int `json:"repaired_fields"`
	PassthroughFields int `json:"passthrough_fields"`
}

// Meta identifies one run. It is supplied by the caller so that Assemble
// itself stays deterministic.
type Meta struct {
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"` // RFC 3339
	FilesSeen   int    `json:"files_seen"`
}

// Report is the terminal artifact. Field order here is the stable
// serialization order; map keys serialize sorted.
type Report struct {
	Meta                 Meta                     `json:"meta"`
	Titles               []string                 `json:"titles,omitempty"`
	MessageCount         int                      `json:"message_count"`
	PerSenderCounts      map[string]int           `json:"per_sender_counts"`
	Senders              map[string]SenderSummary `json:"senders"`
	TopEmoji             []EmojiCount             `json:"top_emoji"`
	PerSenderTopReaction map[string]EmojiCount    `json:"per_sender_top_reaction"`
	TopWords             []WordCount              `json:"top_words"`
	Quality              Quality                  `json:"quality"`
}

// Assembler builds reports with fixed ranking depths.
type Assembler struct {
	topEmoji int
	topWords int
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithTopEmoji sets how many emoji the global ranking keeps.
func WithTopEmoji(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.topEmoji = n
		}
	}
}

// WithTopWords sets how many words the rankings keep.
func WithTopWords(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.topWords = n
		}
	}
}

// New constructs an Assembler with default ranking depths.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		topEmoji: defaultTopEmoji,
		topWords: defaultTopWords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble folds one run's data into a Report.
func (a *Assembler) Assemble(ctx context.Context, meta Meta, titles []string, messages []model.Message, tally analyze.Tally, counters quality.Counters) Report {
	rep := Report{
		Meta:                 meta,
		Titles:               titles,
		MessageCount:         len(messages),
		PerSenderCounts:      make(map[string]int, len(tally.MessagesBySender)),
		Senders:              make(map[string]SenderSummary, len(tally.MessagesBySender)),
		PerSenderTopReaction: make(map[string]EmojiCount, len(tally.ReactionsByActor)),
		Quality: Quality{
			TotalRecords:      counters.TotalRecords,
			DroppedRecords:    counters.DroppedRecords,
			SkippedReactions:  counters.SkippedReactions,
			IgnoredMessages:   counters.IgnoredMessages,
			UnparsableFiles:   counters.UnparsableFiles,
			RepairedFields:    counters.RepairedFields,
			PassthroughFields: counters.PassthroughFields,
		},
	}

	for sender, count := range tally.MessagesBySender {
		rep.PerSenderCounts[sender] = count
		rep.Senders[sender] = SenderSummary{
			Messages:          count,
			BodyRunes:         tally.BodyRunesBySender[sender],
			ReactionsReceived: tally.ReactionsReceivedBySender[sender],
			TopWords:          rankWords(ctx, tally.WordsBySender[sender], a.topWords),
		}
	}

	rep.TopEmoji = rankEmoji(ctx, tally.Emoji, a.topEmoji)
	rep.TopWords = rankWords(ctx, tally.Words, a.topWords)

	for actor, counts := range tally.ReactionsByActor {
		best, err := repository.FromCounts(ctx, counts).Best(ctx)
		if err != nil {
			continue
		}
		rep.PerSenderTopReaction[actor] = EmojiCount{Emoji: best.Key, Count: best.Count}
	}

	return rep
}

func rankEmoji(ctx context.Context, counts map[string]int, n int) []EmojiCount {
	entries, err := repository.FromCounts(ctx, counts).TopN(ctx, n)
	if err != nil || len(entries) == 0 {
		return []EmojiCount{}
	}
	out := make([]EmojiCount, len(entries))
	for i, e := range entries {
		out[i] = EmojiCount{Emoji: e.Key, Count: e.Count}
	}
	return out
}

func rankWords(ctx context.Context, counts map[string]int, n int) []WordCount {
	entries, err := repository.FromCounts(ctx, counts).TopN(ctx, n)
	if err != nil || len(entries) == 0 {
		return nil
	}
	out := make([]WordCount, len(entries))
	for i, e := range entries {
		out[i] = WordCount{Word: e.Key, Count: e.Count}
	}
	return out
}
