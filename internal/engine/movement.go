package engine

import "fmt"

// MovementKind classifies an accepted move. The kind decides how the board
// applies and reverts it.
type MovementKind string

const (
	Valid                MovementKind = "valid"
	Capture              MovementKind = "capture"
	EnPassant            MovementKind = "enPassant"
	Castling             MovementKind = "castling"
	InitialDoubleAdvance MovementKind = "initialDoubleAdvance"
)

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Movement is a classified legal move. Captured is set for Capture and
// EnPassant, CastleRookMove for Castling.
type Movement struct {
	Kind           MovementKind    `json:"kind"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Captured       *Piece          `json:"captured,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
}

// CapturedAt returns the square the captured piece stood on. For en passant
// that is beside the source square, not the destination.
func (m Movement) CapturedAt() Position {
	if m.Kind == EnPassant {
		return Position{X: m.To.X, Y: m.From.Y}
	}
	return m.To
}

func (m Movement) String() string {
	switch m.Kind {
	case Castling:
		if m.To.X > m.From.X {
			return "O-O"
		}
		return "O-O-O"
	case Capture, EnPassant:
		return fmt.Sprintf("%sx%s", m.From, m.To)
	}
	return fmt.Sprintf("%s-%s", m.From, m.To)
}

// SimpleMove is an unclassified source/destination pair.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m SimpleMove) String() string {
	return m.From.String() + m.To.String()
}
