// Package normalize turns raw export bytes into a lazy, forward-only stream
// of canonical messages. One Stream covers one input file; the caller may
// parse the same file again to restart.
//
// Every free-text field leaving this package has passed the codec repair
// unit exactly once. Records missing a required field are dropped and
// counted, never silently discarded.
package normalize

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/arianv/chatmend/internal/domain/model"
	"github.com/arianv/chatmend/internal/domain/quality"
	"github.com/arianv/chatmend/internal/domain/record"
	"github.com/arianv/chatmend/internal/domain/repair"
	"github.com/arianv/chatmend/pkg/logger"
	"github.com/arianv/chatmend/pkg/metrics"
)

// Normalizer parses export files into message streams.
type Normalizer struct {
	log logger.Logger
}

// New constructs a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parse validates one export file and returns its message stream. Both
// export forms are accepted: an object with a "messages" array, and a bare
// top-level array of records. Anything else is ErrUnparsableExport.
func (n *Normalizer) Parse(ctx context.Context, data []byte) (*Stream, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrUnparsableExport)
	}

	doc := gjson.ParseBytes(data)

	stream := &Stream{normalizer: n}
	switch {
	case doc.IsArray():
		stream.records = doc.Array()
	case doc.IsObject():
		msgs := doc.Get("messages")
		if !msgs.Exists() || !msgs.IsArray() {
			return nil, fmt.Errorf("%w: no messages array", ErrUnparsableExport)
		}
		stream.records = msgs.Array()
		if raw, ok := record.Title(doc); ok {
			stream.title = n.repairField(raw, &stream.counters)
		}
	default:
		return nil, fmt.Errorf("%w: top level is not an object or array", ErrUnparsableExport)
	}

	return stream, nil
}

// Stream is a forward-only iterator over one file's normalized messages.
// It is not safe for concurrent use; the pipeline is single-threaded.
type Stream struct {
	normalizer *Normalizer
	records    []gjson.Result
	idx        int
	counters   quality.Counters
	title      string
}

// Title returns the thread title, repaired, or "" when absent.
func (s *Stream) Title() string {
	return s.title
}

// Counters returns the accounting accumulated so far. Call after the stream
// is drained for the file's full tally.
func (s *Stream) Counters() quality.Counters {
	return s.counters
}

// Next returns the next well-formed message. It returns false when the
// stream is exhausted or ctx is cancelled. Malformed records are dropped,
// counted, and skipped over, so a false return always means "no more input".
func (s *Stream) Next(ctx context.Context) (model.Message, bool) {
	for s.idx < len(s.records) {
		if ctx.Err() != nil {
			return model.Message{}, false
		}

		raw := record.Wrap(s.records[s.idx])
		s.idx++
		s.counters.TotalRecords++
		metrics.RecordRawRecords(1)

		msg, err := s.normalize(ctx, raw)
		if err != nil {
			s.counters.DroppedRecords++
			metrics.RecordRecordDropped()
			if log := s.normalizer.log; log != nil {
				log.Debug(ctx, "dropping record", logger.Int("index", s.idx-1), logger.Error(err))
			}
			continue
		}
		return msg, true
	}
	return model.Message{}, false
}

// normalize extracts and repairs one record.
func (s *Stream) normalize(ctx context.Context, raw record.Raw) (model.Message, error) {
	sender, ok := raw.Sender()
	if !ok {
		return model.Message{}, fmt.Errorf("%w: no sender", ErrMalformedRecord)
	}
	ts, ok := raw.TimestampMS()
	if !ok {
		return model.Message{}, fmt.Errorf("%w: no integer timestamp", ErrMalformedRecord)
	}

	msg := model.Message{
		Sender:    s.normalizer.repairField(sender, &s.counters),
		Timestamp: ts,
	}

	if body, ok := raw.Body(); ok {
		msg.Body = s.normalizer.repairField(body, &s.counters)
		msg.HasBody = true
	}

	for _, entry := range raw.Reactions() {
		actor, okActor := entry.Actor()
		em, okEmoji := entry.Emoji()
		if !okActor || !okEmoji {
			s.counters.SkippedReactions++
			metrics.RecordReactionSkipped()
			if log := s.normalizer.log; log != nil {
				log.Debug(ctx, "skipping malformed reaction", logger.String("sender", msg.Sender))
			}
			continue
		}
		msg.Reactions = append(msg.Reactions, model.Reaction{
			Actor: s.normalizer.repairField(actor, &s.counters),
			Emoji: s.normalizer.repairField(em, &s.counters),
		})
	}

	return msg, nil
}

// repairField runs one string through the codec repair unit and records the
// outcome in the stream's counters. Titles count too: they are text fields
// like any other.
func (n *Normalizer) repairField(s string, counters *quality.Counters) string {
	out, changed := repair.Repair(s)
	if changed {
		metrics.RecordRepairApplied()
		counters.RepairedFields++
	} else {
		metrics.RecordRepairPassthrough()
		counters.PassthroughFields++
	}
	return out
}
