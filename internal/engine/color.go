package engine

import "fmt"

// Color is the side a piece belongs to. The zero value means "no color" and is
// used by Board.Check when nobody is in check.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	return string(c)
}

// Valid reports whether c is White or Black.
func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c *Color) UnmarshalText(text []byte) error {
	switch Color(text) {
	case White, Black:
		*c = Color(text)
		return nil
	}
	return fmt.Errorf("invalid color %q", text)
}

// forward is the rank delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// pawnRank is the rank pawns start on.
func (c Color) pawnRank() int {
	if c == White {
		return 1
	}
	return 6
}

// lastRank is the rank on which pawns of this color promote.
func (c Color) lastRank() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) backRank() int {
	if c == White {
		return 0
	}
	return 7
}
