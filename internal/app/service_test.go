package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arianv/chatmend/internal/adapters/source"
	"github.com/arianv/chatmend/internal/app"
	"github.com/arianv/chatmend/internal/domain/report"
	"github.com/arianv/chatmend/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// The corrupted fields decode to "café" and "😂" after repair.
const goodExport = `{
  "title": "cafÃ© crew",
  "messages": [
    {
      "sender_name": "Ana",
      "timestamp_ms": 1700000000000,
      "content": "cafÃ© time",
      "reactions": [
        {"reaction": "\u00f0\u009f\u0098\u0082", "actor": "Bo"}
      ]
    },
    {
      "sender_name": "Bo",
      "timestamp_ms": 1700000100000,
      "content": "on my way"
    },
    {
      "timestamp_ms": 1700000200000,
      "content": "orphan record without a sender"
    }
  ]
}`

const assistantExport = `[
  {"sender_name": "Meta AI", "timestamp_ms": 1700000300000, "content": "generated summary"},
  {"sender_name": "Ana", "timestamp_ms": 1700000400000, "content": "ignore the bot"}
]`

func writeExports(t *testing.T, files map[string]string) *source.Dir {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return source.NewDir(root)
}

func TestServiceRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a directory with one good and one truncated export", t, func() {
		src := writeExports(t, map[string]string{
			"message_1.json": goodExport,
			"message_2.json": `{"messages": [{"sender_name": "Ana",`,
		})
		svc := app.New(app.WithClock(func() time.Time {
			return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
		}))

		Convey("When running the pipeline", func() {
			rep, err := svc.Run(ctx, src)

			Convey("Then the run succeeds despite the bad file", func() {
				So(err, ShouldBeNil)
				So(rep.Meta.FilesSeen, ShouldEqual, 2)
				So(rep.Meta.GeneratedAt, ShouldEqual, "2026-08-25T10:00:00Z")
				So(rep.Quality.UnparsableFiles, ShouldEqual, 1)
			})

			Convey("Then well-formed records survive and the orphan is dropped", func() {
				So(rep.MessageCount, ShouldEqual, 2)
				So(rep.Quality.TotalRecords, ShouldEqual, 3)
				So(rep.Quality.DroppedRecords, ShouldEqual, 1)
			})

			Convey("Then corrupted text was repaired end to end", func() {
				So(rep.Titles, ShouldResemble, []string{"café crew"})
				So(rep.TopEmoji[0].Emoji, ShouldEqual, "😂")
				So(rep.PerSenderTopReaction["Bo"].Emoji, ShouldEqual, "😂")
				So(rep.TopWords, ShouldContain, report.WordCount{Word: "café", Count: 1})
				// Title, body, and reaction emoji each count one repair.
				So(rep.Quality.RepairedFields, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a directory where every file is unparsable", t, func() {
		src := writeExports(t, map[string]string{
			"a.json": `not json at all`,
			"b.json": `42`,
		})

		Convey("Then the run fails with the empty-result kind", func() {
			_, err := app.New().Run(ctx, src)
			So(errors.Is(err, app.ErrEmptyResult), ShouldBeTrue)
		})
	})

	Convey("Given a directory with no export files", t, func() {
		root := t.TempDir()
		So(os.WriteFile(filepath.Join(root, "cover.jpg"), []byte{0xFF}, 0o644), ShouldBeNil)

		Convey("Then the run fails with the empty-result kind", func() {
			_, err := app.New().Run(ctx, source.NewDir(root))
			So(errors.Is(err, app.ErrEmptyResult), ShouldBeTrue)
		})
	})

	Convey("Given the assistant exclusion default", t, func() {
		src := writeExports(t, map[string]string{"chat.json": assistantExport})

		Convey("When running the pipeline", func() {
			rep, err := app.New().Run(ctx, src)

			Convey("Then assistant messages are ignored, not dropped", func() {
				So(err, ShouldBeNil)
				So(rep.MessageCount, ShouldEqual, 1)
				So(rep.PerSenderCounts, ShouldNotContainKey, "Meta AI")
				So(rep.Quality.IgnoredMessages, ShouldEqual, 1)
				So(rep.Quality.DroppedRecords, ShouldEqual, 0)
			})
		})

		Convey("When the exclusion list is replaced", func() {
			rep, err := app.New(app.WithIgnoreSenders(nil)).Run(ctx, src)

			Convey("Then the assistant counts like anyone else", func() {
				So(err, ShouldBeNil)
				So(rep.MessageCount, ShouldEqual, 2)
				So(rep.PerSenderCounts["Meta AI"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a date window", t, func() {
		src := writeExports(t, map[string]string{"chat.json": goodExport})
		// Both kept messages fall on 2023-11-14 (UTC).
		afterward := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

		Convey("When the window excludes every message", func() {
			rep, err := app.New(app.WithDateRange(afterward, time.Time{})).Run(ctx, src)

			Convey("Then messages are ignored with counts preserved", func() {
				So(err, ShouldBeNil)
				So(rep.MessageCount, ShouldEqual, 0)
				So(rep.Quality.IgnoredMessages, ShouldEqual, 2)
				So(rep.Quality.TotalRecords, ShouldEqual, 3)
			})
		})

		Convey("When the window covers the conversation", func() {
			window := app.WithDateRange(
				time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
				afterward,
			)
			rep, err := app.New(window).Run(ctx, src)

			Convey("Then nothing is ignored", func() {
				So(err, ShouldBeNil)
				So(rep.MessageCount, ShouldEqual, 2)
				So(rep.Quality.IgnoredMessages, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		src := writeExports(t, map[string]string{"chat.json": goodExport})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		Convey("Then the run stops early", func() {
			_, err := app.New().Run(cancelled, src)
			So(err, ShouldNotBeNil)
		})
	})
}
