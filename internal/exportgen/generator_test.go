package exportgen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arianv/chatmend/internal/adapters/source"
	"github.com/arianv/chatmend/internal/app"
	"github.com/arianv/chatmend/internal/domain/repair"
	"github.com/arianv/chatmend/internal/exportgen"
	"github.com/arianv/chatmend/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestCorrupt(t *testing.T) {
	Convey("Given text containing multi-byte characters", t, func() {
		samples := []string{"café", "😂", "jalapeño 🌶️", "👨‍👩‍👧‍👦"}

		Convey("Then corruption inflates it and repair restores it", func() {
			for _, s := range samples {
				bad := exportgen.Corrupt(s)
				So(bad, ShouldNotEqual, s)

				fixed, changed := repair.Repair(bad)
				So(changed, ShouldBeTrue)
				So(fixed, ShouldEqual, s)
			}
		})

		Convey("Then pure ASCII is a fixed point", func() {
			So(exportgen.Corrupt("hello"), ShouldEqual, "hello")
		})
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generation config", t, func() {
		cfg := &exportgen.Config{
			OutputDir:      t.TempDir(),
			Files:          3,
			Messages:       40,
			Senders:        4,
			CorruptRatio:   0.5,
			MalformedRatio: 0.1,
			Seed:           7,
		}

		Convey("When generating and running the pipeline over the output", func() {
			stats, err := exportgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			So(stats.FilesWritten, ShouldEqual, 3)
			So(stats.MessagesWritten, ShouldEqual, 120)
			So(stats.CorruptedFields, ShouldBeGreaterThan, 0)

			rep, err := app.New(app.WithIgnoreSenders(nil)).Run(ctx, source.NewDir(cfg.OutputDir))

			Convey("Then every file parses and accounting lines up", func() {
				So(err, ShouldBeNil)
				So(rep.Meta.FilesSeen, ShouldEqual, 3)
				So(rep.Quality.UnparsableFiles, ShouldEqual, 0)
				So(rep.Quality.TotalRecords, ShouldEqual, 120)
				So(rep.Quality.DroppedRecords, ShouldEqual, stats.MalformedRecords)
				So(rep.MessageCount, ShouldEqual, 120-stats.MalformedRecords)
			})

			Convey("Then corrupted emoji still tally as their repaired form", func() {
				So(rep.TopEmoji, ShouldNotBeEmpty)
				for _, e := range rep.TopEmoji {
					_, changed := repair.Repair(e.Emoji)
					So(changed, ShouldBeFalse)
				}
			})
		})

		Convey("When the config is non-positive", func() {
			_, err := exportgen.Generate(ctx, &exportgen.Config{})
			So(errors.Is(err, exportgen.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
