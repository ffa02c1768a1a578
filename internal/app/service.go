// Package app wires the pipeline together: discover export files, stream
// their normalized messages through the analyzer, and assemble the report.
// The pipeline is single-threaded; one run touches each file once.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arianv/chatmend/internal/adapters/source"
	"github.com/arianv/chatmend/internal/domain/analyze"
	"github.com/arianv/chatmend/internal/domain/model"
	"github.com/arianv/chatmend/internal/domain/normalize"
	"github.com/arianv/chatmend/internal/domain/quality"
	"github.com/arianv/chatmend/internal/domain/report"
	"github.com/arianv/chatmend/pkg/logger"
	"github.com/arianv/chatmend/pkg/metrics"
)

// Service runs the ingestion and analysis pipeline over one source.
type Service struct {
	log      logger.Logger
	topEmoji int
	topWords int
	ignore   map[string]struct{}
	start    time.Time
	end      time.Time
	now      func() time.Time
}

// New constructs a Service. By default the platform's assistant account
// is excluded from analysis.
func New(opts ...Option) *Service {
	s := &Service{
		log:    logger.Get().Named("app"),
		ignore: map[string]struct{}{"Meta AI": {}},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every export file the source lists and returns the
// assembled report. Unreadable or unparsable files are counted and
// skipped; Run fails only when no file yields records, with ErrEmptyResult.
func (s *Service) Run(ctx context.Context, src source.Source) (report.Report, error) {
	paths, err := src.List(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %w", ErrEmptyResult, err)
	}

	var (
		normalizer = normalize.New(normalize.WithLogger(s.log.Named("normalize")))
		analyzer   = analyze.New()
		counters   quality.Counters
		messages   []model.Message
		titles     []string
		seenTitles = map[string]struct{}{}
		parsed     int
	)

	for _, path := range paths {
		if ctx.Err() != nil {
			return report.Report{}, ctx.Err()
		}

		began := time.Now()
		stream, err := s.parseFile(ctx, src, normalizer, path)
		if err != nil {
			counters.UnparsableFiles++
			metrics.RecordFileUnparsable()
			s.log.Warn(ctx, "skipping export file",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		parsed++
		metrics.RecordFileParsed()

		if title := stream.Title(); title != "" {
			if _, ok := seenTitles[title]; !ok {
				seenTitles[title] = struct{}{}
				titles = append(titles, title)
			}
		}

		for {
			msg, ok := stream.Next(ctx)
			if !ok {
				break
			}
			if s.ignored(msg) {
				counters.IgnoredMessages++
				metrics.RecordMessageIgnored()
				continue
			}
			messages = append(messages, msg)
			analyzer.Consume(msg)
		}
		counters.Merge(stream.Counters())
		metrics.ObserveFileParse(time.Since(began).Seconds())
		metrics.UpdateMessagesInMemory(len(messages))
	}

	if parsed == 0 {
		return report.Report{}, fmt.Errorf("%w: %d files, none parsable", ErrEmptyResult, len(paths))
	}

	tally := analyzer.Snapshot()
	metrics.UpdateSendersTotal(len(tally.MessagesBySender))

	meta := report.Meta{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		FilesSeen:   len(paths),
	}
	rep := report.New(
		report.WithTopEmoji(s.topEmoji),
		report.WithTopWords(s.topWords),
	).Assemble(ctx, meta, titles, messages, tally, counters)

	s.log.Info(ctx, "run complete",
		logger.String("run_id", meta.RunID),
		logger.Int("files", len(paths)),
		logger.Int("messages", rep.MessageCount),
		logger.Int("dropped", counters.DroppedRecords),
		logger.Int("repaired_fields", counters.RepairedFields),
	)
	return rep, nil
}

func (s *Service) parseFile(ctx context.Context, src source.Source, normalizer *normalize.Normalizer, path string) (*normalize.Stream, error) {
	data, err := src.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableFile, err)
	}
	stream, err := normalizer.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableFile, err)
	}
	return stream, nil
}

// ignored reports whether a message falls outside the analysis scope:
// an excluded sender, or a timestamp outside the configured window.
func (s *Service) ignored(msg model.Message) bool {
	if _, ok := s.ignore[msg.Sender]; ok {
		return true
	}
	ts := time.UnixMilli(msg.Timestamp)
	if !s.start.IsZero() && ts.Before(s.start) {
		return true
	}
	if !s.end.IsZero() && !ts.Before(s.end) {
		return true
	}
	return false
}
