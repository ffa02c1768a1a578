// Package writer renders an assembled report to an output stream, either
// as indented JSON for machine consumers or as a plain-text summary for
// reading in a terminal.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/arianv/chatmend/internal/domain/report"
)

// Formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Writer renders one report.
type Writer interface {
	Write(w io.Writer, rep report.Report) error
}

// New returns the writer for format.
func New(format string) (Writer, error) {
	switch format {
	case FormatJSON:
		return &jsonWriter{}, nil
	case FormatText:
		return &textWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type jsonWriter struct{}

func (jsonWriter) Write(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

type textWriter struct{}

func (textWriter) Write(w io.Writer, rep report.Report) error {
	p := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	p("chatmend report %s (%s)", rep.Meta.RunID, rep.Meta.GeneratedAt)
	for _, title := range rep.Titles {
		p("thread: %s", title)
	}
	p("")
	p("messages: %s across %s files",
		humanize.Comma(int64(rep.MessageCount)),
		humanize.Comma(int64(rep.Meta.FilesSeen)),
	)

	p("")
	p("senders:")
	for _, sender := range sortedSenders(rep.Senders) {
		s := rep.Senders[sender]
		p("  %-20s %s messages, %s body runes, %s reactions received",
			sender,
			humanize.Comma(int64(s.Messages)),
			humanize.Comma(int64(s.BodyRunes)),
			humanize.Comma(int64(s.ReactionsReceived)),
		)
		if top, ok := rep.PerSenderTopReaction[sender]; ok {
			p("  %-20s favourite reaction %s (%d)", "", top.Emoji, top.Count)
		}
	}

	if len(rep.TopEmoji) > 0 {
		p("")
		p("top emoji:")
		for i, e := range rep.TopEmoji {
			p("  %2d. %s  %s", i+1, e.Emoji, humanize.Comma(int64(e.Count)))
		}
	}

	if len(rep.TopWords) > 0 {
		p("")
		p("top words:")
		for i, word := range rep.TopWords {
			p("  %2d. %-15s %s", i+1, word.Word, humanize.Comma(int64(word.Count)))
		}
	}

	q := rep.Quality
	p("")
	p("quality:")
	p("  records total %s, dropped %s, ignored %s",
		humanize.Comma(int64(q.TotalRecords)),
		humanize.Comma(int64(q.DroppedRecords)),
		humanize.Comma(int64(q.IgnoredMessages)),
	)
	p("  fields repaired %s, passed through %s",
		humanize.Comma(int64(q.RepairedFields)),
		humanize.Comma(int64(q.PassthroughFields)),
	)
	p("  reactions skipped %s, files unparsable %s",
		humanize.Comma(int64(q.SkippedReactions)),
		humanize.Comma(int64(q.UnparsableFiles)),
	)
	return nil
}

func sortedSenders(senders map[string]report.SenderSummary) []string {
	out := make([]string, 0, len(senders))
	for sender := range senders {
		out = append(out, sender)
	}
	sort.Strings(out)
	return out
}
