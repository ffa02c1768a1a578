package normalize_test

import (
	"context"
	"testing"

	"github.com/arianv/chatmend/internal/domain/model"
	"github.com/arianv/chatmend/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func drain(ctx context.Context, s *normalize.Stream) []model.Message {
	var out []model.Message
	for {
		msg, ok := s.Next(ctx)
		if !ok {
			return out
		}
		out = append(out, msg)
	}
}

func TestParse(t *testing.T) {
	ctx := context.Background()

	Convey("Given a normalizer", t, func() {
		n := normalize.New()

		Convey("When parsing an object export with a messages array", func() {
			data := []byte(`{"title":"girls trip","messages":[
				{"sender_name":"Ana","timestamp_ms":1000,"content":"hi"}
			]}`)
			stream, err := n.Parse(ctx, data)

			Convey("Then it should yield the message and the title", func() {
				So(err, ShouldBeNil)
				So(stream.Title(), ShouldEqual, "girls trip")
				msgs := drain(ctx, stream)
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Sender, ShouldEqual, "Ana")
				So(msgs[0].Timestamp, ShouldEqual, 1000)
				So(msgs[0].Body, ShouldEqual, "hi")
				So(msgs[0].HasBody, ShouldBeTrue)
			})
		})

		Convey("When parsing a bare top-level array export", func() {
			data := []byte(`[{"sender":"Bo","timestamp":2000,"text":"yo"}]`)
			stream, err := n.Parse(ctx, data)

			Convey("Then alias fields are accepted", func() {
				So(err, ShouldBeNil)
				msgs := drain(ctx, stream)
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Sender, ShouldEqual, "Bo")
				So(msgs[0].Timestamp, ShouldEqual, 2000)
				So(msgs[0].Body, ShouldEqual, "yo")
			})
		})

		Convey("When parsing invalid JSON", func() {
			_, err := n.Parse(ctx, []byte(`{"messages": [ {"sender_name": "Ana", `))

			Convey("Then it should report an unparsable export", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unparsable")
			})
		})

		Convey("When parsing JSON without the expected shape", func() {
			_, err := n.Parse(ctx, []byte(`{"participants": []}`))

			Convey("Then it should report an unparsable export", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When parsing a scalar top level", func() {
			_, err := n.Parse(ctx, []byte(`42`))

			Convey("Then it should report an unparsable export", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestStreamFieldPolicy(t *testing.T) {
	ctx := context.Background()

	Convey("Given export records with missing or variant fields", t, func() {
		n := normalize.New()

		Convey("When a record has no sender", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"timestamp_ms":1000,"content":"orphan"}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then it is dropped and counted", func() {
				So(msgs, ShouldBeEmpty)
				c := stream.Counters()
				So(c.TotalRecords, ShouldEqual, 1)
				So(c.DroppedRecords, ShouldEqual, 1)
				So(c.KeptRecords(), ShouldEqual, 0)
			})
		})

		Convey("When a record has a non-integer timestamp", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"sender_name":"Ana","timestamp_ms":"soon","content":"hm"},
				{"sender_name":"Ana","timestamp_ms":10.5,"content":"hm"}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then both records are dropped", func() {
				So(msgs, ShouldBeEmpty)
				So(stream.Counters().DroppedRecords, ShouldEqual, 2)
			})
		})

		Convey("When a record has no body", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"sender_name":"Ana","timestamp_ms":1000}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then it is kept as a non-text message", func() {
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].HasBody, ShouldBeFalse)
				So(msgs[0].Body, ShouldEqual, "")
				So(stream.Counters().DroppedRecords, ShouldEqual, 0)
			})
		})

		Convey("When reactions use variant emoji field names", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"sender_name":"Ana","timestamp_ms":1000,"content":"hi","reactions":[
					{"actor":"Bo","reaction":"x"},
					{"actor":"Cy","emoji":"y"},
					{"actor":"Di","reaction_emoji":"z"}
				]}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then the priority list accepts each form", func() {
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Reactions, ShouldResemble, []model.Reaction{
					{Actor: "Bo", Emoji: "x"},
					{Actor: "Cy", Emoji: "y"},
					{Actor: "Di", Emoji: "z"},
				})
			})
		})

		Convey("When a reaction entry is missing all emoji fields", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"sender_name":"Ana","timestamp_ms":1000,"content":"hi","reactions":[
					{"actor":"Bo"},
					{"actor":"Cy","reaction":"ok"}
				]}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then only that entry is skipped, not the message", func() {
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Reactions, ShouldHaveLength, 1)
				So(msgs[0].Reactions[0].Actor, ShouldEqual, "Cy")
				So(stream.Counters().SkippedReactions, ShouldEqual, 1)
			})
		})

		Convey("When a reactions field is not a list", func() {
			stream, err := n.Parse(ctx, []byte(`{"messages":[
				{"sender_name":"Ana","timestamp_ms":1000,"content":"hi","reactions":"lots"}
			]}`))
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then the message survives with no reactions", func() {
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Reactions, ShouldBeEmpty)
			})
		})
	})
}

func TestStreamRepair(t *testing.T) {
	ctx := context.Background()

	Convey("Given an export with corrupted text fields", t, func() {
		n := normalize.New()

		// "café" and the laughing-face emoji as they appear after the
		// Latin-1 mis-decode.
		data := []byte(`{"messages":[
			{"sender":"Ana","timestamp":1000,"text":"caf\u00c3\u00a9",
			 "reactions":[{"actor":"Bo","reaction":"\u00f0\u009f\u0098\u0082"}]}
		]}`)

		Convey("When the stream is drained", func() {
			stream, err := n.Parse(ctx, data)
			So(err, ShouldBeNil)
			msgs := drain(ctx, stream)

			Convey("Then every text field is repaired exactly once", func() {
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Body, ShouldEqual, "café")
				So(msgs[0].Reactions, ShouldHaveLength, 1)
				So(msgs[0].Reactions[0].Emoji, ShouldEqual, "😂")
				So(stream.Counters().RepairedFields, ShouldEqual, 2)
			})
		})

		Convey("When the title is corrupted too", func() {
			stream, err := n.Parse(ctx, []byte(`{"title":"caf\u00c3\u00a9 club","messages":[]}`))
			So(err, ShouldBeNil)

			Convey("Then the title comes out repaired and counted", func() {
				So(stream.Title(), ShouldEqual, "café club")
				So(stream.Counters().RepairedFields, ShouldEqual, 1)
			})
		})

		Convey("When the title needs no repair", func() {
			stream, err := n.Parse(ctx, []byte(`{"title":"book club","messages":[]}`))
			So(err, ShouldBeNil)

			Convey("Then it counts as a passthrough field", func() {
				So(stream.Title(), ShouldEqual, "book club")
				So(stream.Counters().RepairedFields, ShouldEqual, 0)
				So(stream.Counters().PassthroughFields, ShouldEqual, 1)
			})
		})

		Convey("When the stream is restarted by reparsing", func() {
			first, err := n.Parse(ctx, data)
			So(err, ShouldBeNil)
			a := drain(ctx, first)

			second, err := n.Parse(ctx, data)
			So(err, ShouldBeNil)
			b := drain(ctx, second)

			Convey("Then both passes yield equal messages", func() {
				So(b, ShouldResemble, a)
			})
		})
	})
}
