package engine

import (
	"fmt"
	"strings"
)

type PieceType string

const (
	Pawn   PieceType = "pawn"
	Knight PieceType = "knight"
	Bishop PieceType = "bishop"
	Rook   PieceType = "rook"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

// PromotionTypes lists the pieces a pawn may promote to, strongest first.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

// Valid reports whether t is one of the six piece types.
func (t PieceType) Valid() bool {
	switch t {
	case Pawn, Knight, Bishop, Rook, Queen, King:
		return true
	}
	return false
}

// Letter returns the notation letter of the piece; pawns have none.
func (t PieceType) Letter() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (t *PieceType) UnmarshalText(text []byte) error {
	parsed := PieceType(strings.ToLower(string(text)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid piece type %q", text)
	}
	*t = parsed
	return nil
}

// Piece is a chess piece. It is a plain value: the board stores copies, so
// the HasMoved flag of a piece on the board only changes when the board moves it.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

func NewPawn(c Color) Piece   { return NewPiece(Pawn, c) }
func NewKnight(c Color) Piece { return NewPiece(Knight, c) }
func NewBishop(c Color) Piece { return NewPiece(Bishop, c) }
func NewRook(c Color) Piece   { return NewPiece(Rook, c) }
func NewQueen(c Color) Piece  { return NewPiece(Queen, c) }
func NewKing(c Color) Piece   { return NewPiece(King, c) }

// IsZero reports whether p is the empty square marker.
func (p Piece) IsZero() bool {
	return p.Type == ""
}

var glyphs = map[PieceType][2]string{
	Pawn:   {"♙", "♟"},
	Knight: {"♘", "♞"},
	Bishop: {"♗", "♝"},
	Rook:   {"♖", "♜"},
	Queen:  {"♕", "♛"},
	King:   {"♔", "♚"},
}

// String returns the piece glyph: outlined for white, filled for black.
func (p Piece) String() string {
	g, ok := glyphs[p.Type]
	if !ok {
		return "."
	}
	if p.Color == Black {
		return g[1]
	}
	return g[0]
}

const (
	ansiWhite = "\033[37m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

// ColorString renders the outlined glyph in terminal colors. Black pieces
// are drawn red so they stay visible on dark backgrounds.
func (p Piece) ColorString() string {
	g, ok := glyphs[p.Type]
	if !ok {
		return "."
	}
	color := ansiWhite
	if p.Color == Black {
		color = ansiRed
	}
	return color + g[0] + ansiReset
}
