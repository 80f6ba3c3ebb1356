package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidPosition is returned when a square name cannot be parsed.
var ErrInvalidPosition = errors.New("invalid position")

// Position is a square on the board. X is the file (0 = a) and Y the rank
// (0 = rank 1). Positions produced by arithmetic may fall off the board;
// board lookups treat those as empty.
type Position struct {
	X int
	Y int
}

// ParsePosition parses algebraic coordinates such as "e4". Upper case files
// are accepted.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	file := s[0]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	p := Position{X: int(file) - 'a', Y: int(s[1]) - '1'}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return p, nil
}

// MustParsePosition is like ParsePosition but panics on malformed input. It is
// meant for literals in tests and setup tables.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether the position lies on the board.
func (p Position) Valid() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

// String returns the algebraic name of the square, e.g. "e4".
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+p.X, p.Y+1)
}

// File returns the file letter of the square.
func (p Position) File() string {
	return fmt.Sprintf("%c", 'a'+p.X)
}

// Add returns the position offset by dx files and dy ranks.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Delta returns the file and rank distance from p to to.
func (p Position) Delta(to Position) (dx, dy int) {
	return to.X - p.X, to.Y - p.Y
}

func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d,%d", ErrInvalidPosition, p.X, p.Y)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
