// Package record provides typed, fallible accessors over one raw export
// record. The export schema is not trusted: field names vary across export
// versions and values may be absent or of unexpected type, so every accessor
// tries an ordered list of known aliases and reports absence explicitly
// instead of raising.
package record

import (
	"github.com/tidwall/gjson"
)

// Field-name aliases in priority order. The first present alias wins.
var (
	senderAliases    = []string{"sender_name", "sender", "from", "author"}
	timestampAliases = []string{"timestamp_ms", "timestamp", "ts"}
	bodyAliases      = []string{"content", "text", "body"}
	emojiAliases     = []string{"reaction", "emoji", "reaction_emoji"}
	actorAliases     = []string{"actor", "from", "user"}
	titleAliases     = []string{"title", "thread_name"}
)

// Raw wraps one export record. The zero value is an absent record.
type Raw struct {
	result gjson.Result
}

// Wrap adapts a parsed gjson object into a Raw record.
func Wrap(result gjson.Result) Raw {
	return Raw{result: result}
}

// Sender returns the sender display name, pre-repair.
func (r Raw) Sender() (string, bool) {
	return r.firstString(senderAliases)
}

// TimestampMS returns the message timestamp in epoch milliseconds. A JSON
// number that is not integral, or a non-numeric value, counts as absent.
func (r Raw) TimestampMS() (int64, bool) {
	for _, name := range timestampAliases {
		v := r.result.Get(name)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.Number {
			return 0, false
		}
		f := v.Float()
		n := int64(f)
		if float64(n) != f {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Body returns the message text, pre-repair. Absence is not an error: media
// shares and similar non-text records have no body field.
func (r Raw) Body() (string, bool) {
	return r.firstString(bodyAliases)
}

// RawReaction is one unvalidated entry of a record's reactions list.
type RawReaction struct {
	result gjson.Result
}

// Reactions returns the record's reaction entries in export order. A missing
// or non-array reactions field yields an empty slice.
func (r Raw) Reactions() []RawReaction {
	v := r.result.Get("reactions")
	if !v.Exists() || !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]RawReaction, 0, len(arr))
	for _, entry := range arr {
		out = append(out, RawReaction{result: entry})
	}
	return out
}

// Emoji returns the reaction emoji, pre-repair, trying each known
// schema-version field name in priority order.
func (r RawReaction) Emoji() (string, bool) {
	return firstString(r.result, emojiAliases)
}

// Actor returns the reacting user's display name, pre-repair.
func (r RawReaction) Actor() (string, bool) {
	return firstString(r.result, actorAliases)
}

// Title extracts the thread title from an export's top-level object.
func Title(doc gjson.Result) (string, bool) {
	return firstString(doc, titleAliases)
}

func (r Raw) firstString(aliases []string) (string, bool) {
	return firstString(r.result, aliases)
}

func firstString(result gjson.Result, aliases []string) (string, bool) {
	for _, name := range aliases {
		v := result.Get(name)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.String {
			return "", false
		}
		return v.String(), true
	}
	return "", false
}
