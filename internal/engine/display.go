package engine

import (
	"fmt"
	"strings"
)

// String renders the board as text, rank 8 at the top.
func (b *Board) String() string {
	return b.render(Piece.String)
}

// ColorString is String with ANSI colored glyphs, for terminals.
func (b *Board) ColorString() string {
	return b.render(Piece.ColorString)
}

func (b *Board) render(glyph func(Piece) string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "it is %s's turn\n", b.turn)
	if c, ok := b.Check(); ok {
		fmt.Fprintf(&sb, "%s is in check\n", c)
	}
	sb.WriteString("----------------\n")
	for y := 7; y >= 0; y-- {
		for x := 0; x < 8; x++ {
			sb.WriteString(glyph(b.pieces[y][x]))
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "|%d\n", y+1)
	}
	sb.WriteString("----------------\n")
	sb.WriteString("a b c d e f g h\n")
	return sb.String()
}
