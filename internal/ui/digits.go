package ui

import "strings"

// bigGlyphs is a five row block font for the countdown.
var bigGlyphs = map[rune][5]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" ██", "  █", "  █", "  █", "  █"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
}

// bigText renders s in the block font. Unknown runes are skipped.
func bigText(s string) string {
	var rows [5][]string
	for _, r := range s {
		glyph, ok := bigGlyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}
	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}
