// Package repair reverses the Latin-1-over-UTF-8 mis-encoding found in
// platform data exports.
//
// The export writer encodes text as UTF-8 and then re-decodes the bytes as
// Latin-1, so every original multi-byte sequence shows up as a run of
// separate codepoints in U+0080..U+00FF. Reversal is the inverse: map each
// codepoint <= U+00FF back to its byte and decode the result as UTF-8.
package repair

import (
	"unicode/utf8"
)

// latin1Max is the highest codepoint a Latin-1 decode can produce. Any rune
// above it cannot have come from the documented corruption.
const latin1Max = 0xFF

// Repair reverses the mis-encoding on a single text field. It returns the
// repaired text and true when a rewrite happened, or the input unchanged and
// false when the field was never corrupted (or cannot be addressed).
//
// The decision is all-or-nothing per field: a codepoint above U+00FF, or a
// byte sequence that is not valid UTF-8, short-circuits to the unchanged
// branch. That makes Repair idempotent: repaired text generically contains
// codepoints above U+00FF or properly encoded accents whose Latin-1 bytes
// are not valid UTF-8, so a second pass is a no-op.
func Repair(s string) (string, bool) {
	// Pure ASCII can never change; skip the allocation.
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s, false
	}

	// Re-encode to the Latin-1 byte representation. A codepoint above
	// U+00FF means the field holds genuine Unicode already.
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r > latin1Max {
			return s, false
		}
		buf = append(buf, byte(r))
	}

	// Decode the bytes as UTF-8. Invalid sequences mean the field was
	// plain Latin-1 text all along; guessing would corrupt it.
	if !utf8.Valid(buf) {
		return s, false
	}

	out := string(buf)
	if out == s {
		return s, false
	}
	return out, true
}
