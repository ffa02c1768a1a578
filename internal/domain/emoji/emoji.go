// Package emoji segments text into grapheme clusters and recognizes the
// clusters that render as emoji, including multi-codepoint sequences joined
// by zero-width joiners or variation selectors.
package emoji

import (
	"github.com/rivo/uniseg"
)

// Codepoints with special meaning inside emoji sequences.
const (
	zeroWidthJoiner    = 0x200D
	variationSelector  = 0xFE0F
	combiningEnclosing = 0x20E3 // keycap sequences like 1️⃣
)

// Clusters returns the emoji grapheme clusters of s in order of appearance.
// Each cluster is returned as its full code-point sequence, so 👨‍👩‍👧‍👦 is one
// element, not four.
func Clusters(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if IsEmoji(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

// IsEmoji reports whether a single grapheme cluster renders as an emoji.
func IsEmoji(cluster string) bool {
	for _, r := range cluster {
		switch {
		case r == zeroWidthJoiner || r == variationSelector || r == combiningEnclosing:
			return true
		case isEmojiRune(r):
			return true
		}
	}
	return false
}

// isEmojiRune reports whether a rune belongs to the Unicode blocks used for
// emoji base characters.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols and pictographs
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols and pictographs extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x26FF: // misc symbols (☀, ♥)
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats (✂, ✅)
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	}
	return false
}
