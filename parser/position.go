package parser

import "strings"

// PositionAt maps a byte offset in src to a one-based line and column.
// Offsets outside src are clamped.
func PositionAt(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	pos := Position{
		Offset: offset,
		Line:   1 + strings.Count(before, "\n"),
		Column: offset + 1,
	}
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		pos.Column = offset - i
	}
	return pos
}
