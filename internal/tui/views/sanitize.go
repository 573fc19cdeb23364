package views

import (
	"strings"
	"unicode"

	"github.com/rivo/tview"
)

// clean prepares text from contacts and messages for display: it drops
// codepoints tcell measures with the wrong width (skin tone modifiers, zero
// width joiners, variation selectors), bidi overrides and control characters
// other than newline and tab, then escapes tview tags.
func clean(s string) string {
	return tview.Escape(strings.Map(func(r rune) rune {
		if dropRune(r) {
			return -1
		}
		return r
	}, s))
}

// oneLine is clean for table cells and titles: whitespace runs, newlines
// included, fold into a single space.
func oneLine(s string) string {
	return clean(strings.Join(strings.Fields(s), " "))
}

func dropRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	case r >= 0x1F3FB && r <= 0x1F3FF, // skin tone modifiers
		r == 0x200D,                   // zero width joiner
		r >= 0xFE00 && r <= 0xFE0F,    // variation selectors
		r >= 0xE0100 && r <= 0xE01EF,  // variation selectors supplement
		r >= 0x202A && r <= 0x202E,    // bidi embeddings and overrides
		r >= 0x2066 && r <= 0x2069:    // bidi isolates
		return true
	default:
		return unicode.IsControl(r)
	}
}
