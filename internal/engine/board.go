// Package engine implements the rules of chess on an 8x8 array board: move
// legality and classification, check, checkmate, stalemate, castling, en
// passant, promotion and undo.
//
// A Board is not safe for concurrent use. Callers that share one between
// goroutines must serialize access themselves.
package engine

import "fmt"

type Board struct {
	turn       Color
	pieces     [8][8]Piece
	state      GameState
	check      Color
	turns      []Turn
	whiteKing  Position
	blackKing  Position
	moveNumber int
	resigned   bool

	// origin is the status before the first turn; Undo restores it once
	// the history is empty.
	origin Status
}

// NewBoard returns a board set up for a new game.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset puts every piece back on its starting square and clears the history.
func (b *Board) Reset() {
	b.pieces = initialPieces()
	b.turn = White
	b.state = InProgressState()
	b.check = ""
	b.turns = nil
	b.whiteKing = Position{X: 4, Y: 0}
	b.blackKing = Position{X: 4, Y: 7}
	b.moveNumber = 1
	b.resigned = false
	b.origin = b.status()
}

// NewBoardFromPieces builds a board from an arbitrary grid indexed
// [rank][file]. The grid must hold exactly one king per color, no pawns on
// the first or last rank, and the side not on move must not be in check.
// A position without legal moves starts out finished.
func NewBoardFromPieces(pieces [8][8]Piece, turn Color) (*Board, error) {
	if !turn.Valid() {
		return nil, fmt.Errorf("%w: turn %q", ErrInvalidSetup, turn)
	}
	b := &Board{pieces: pieces, turn: turn, moveNumber: 1, state: InProgressState()}
	kings := map[Color]int{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := pieces[y][x]
			if p.IsZero() {
				continue
			}
			pos := Position{X: x, Y: y}
			if !p.Type.Valid() || !p.Color.Valid() {
				return nil, fmt.Errorf("%w: unknown piece %q %q on %s", ErrInvalidSetup, p.Color, p.Type, pos)
			}
			switch p.Type {
			case King:
				kings[p.Color]++
				b.setKingPosition(p.Color, pos)
			case Pawn:
				if y == 0 || y == 7 {
					return nil, fmt.Errorf("%w: pawn on %s", ErrInvalidSetup, pos)
				}
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: need one king per color, got %d white and %d black",
			ErrInvalidSetup, kings[White], kings[Black])
	}
	if b.IsKingInCheck(turn.Opposite()) {
		return nil, fmt.Errorf("%w: %s is in check but not on move", ErrInvalidSetup, turn.Opposite())
	}
	if b.IsKingInCheck(turn) {
		b.check = turn
	}
	if !b.HasLegalMoves(turn) {
		if b.check != "" {
			b.state = WinnerState(turn.Opposite())
		} else {
			b.state = DrawState()
		}
	}
	b.origin = b.status()
	return b, nil
}

func initialPieces() [8][8]Piece {
	var pieces [8][8]Piece
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, t := range back {
		pieces[0][x] = NewPiece(t, White)
		pieces[1][x] = NewPawn(White)
		pieces[6][x] = NewPawn(Black)
		pieces[7][x] = NewPiece(t, Black)
	}
	return pieces
}

// Clone returns an independent deep copy of the board, history included.
func (b *Board) Clone() *Board {
	c := *b
	c.turns = append([]Turn(nil), b.turns...)
	return &c
}

// scratch is a throwaway copy for check simulation. It carries no history,
// which attack detection never looks at.
func (b *Board) scratch() Board {
	s := *b
	s.turns = nil
	return s
}

func (b *Board) Turn() Color { return b.turn }

func (b *Board) State() GameState { return b.state }

// Check returns the color currently in check, if any.
func (b *Board) Check() (Color, bool) {
	return b.check, b.check != ""
}

// PromotionColor returns the side that owes a promotion choice, if any.
func (b *Board) PromotionColor() (Color, bool) {
	if b.state.Kind != WaitingPromotion {
		return "", false
	}
	return b.state.Color, true
}

// Pieces returns a snapshot of the grid indexed [rank][file].
func (b *Board) Pieces() [8][8]Piece { return b.pieces }

// MoveNumber is the full move number; it grows after each black turn.
func (b *Board) MoveNumber() int { return b.moveNumber }

// History returns a copy of the turns played so far, oldest first.
func (b *Board) History() []Turn {
	return append([]Turn(nil), b.turns...)
}

// LastTurn returns the most recent history entry.
func (b *Board) LastTurn() (Turn, bool) {
	if len(b.turns) == 0 {
		return Turn{}, false
	}
	return b.turns[len(b.turns)-1], true
}

func (b *Board) KingPosition(c Color) Position {
	if c == White {
		return b.whiteKing
	}
	return b.blackKing
}

// PieceAt returns the piece on p. Off-board positions are reported empty.
func (b *Board) PieceAt(p Position) (Piece, bool) {
	if !p.Valid() {
		return Piece{}, false
	}
	piece := b.pieces[p.Y][p.X]
	return piece, !piece.IsZero()
}

func (b *Board) at(p Position) Piece {
	piece, _ := b.PieceAt(p)
	return piece
}

func (b *Board) set(p Position, piece Piece) {
	b.pieces[p.Y][p.X] = piece
}

func (b *Board) clear(p Position) {
	b.pieces[p.Y][p.X] = Piece{}
}

func (b *Board) setKingPosition(c Color, p Position) {
	if c == White {
		b.whiteKing = p
	} else {
		b.blackKing = p
	}
}

func (b *Board) status() Status {
	return Status{
		Turn:       b.turn,
		State:      b.state,
		Check:      b.check,
		WhiteKing:  b.whiteKing,
		BlackKing:  b.blackKing,
		MoveNumber: b.moveNumber,
	}
}

func (b *Board) restore(s Status) {
	b.turn = s.Turn
	b.state = s.State
	b.check = s.Check
	b.whiteKing = s.WhiteKing
	b.blackKing = s.BlackKing
	b.moveNumber = s.MoveNumber
}

// MovePiece moves the piece on from to to if the move is legal for the side
// on move, applies every side effect (captures, en passant, castling) and
// recomputes check, checkmate, stalemate and pending promotion.
func (b *Board) MovePiece(from, to Position) (Movement, error) {
	switch b.state.Kind {
	case WaitingPromotion:
		return Movement{}, ErrPromotionNotSpecified
	case Winner, Draw:
		return Movement{}, ErrGameIsOver
	}
	if from == to {
		return Movement{}, ErrSamePosition
	}
	piece, ok := b.PieceAt(from)
	if !ok || piece.Color != b.turn {
		return Movement{}, ErrInvalidPiece
	}
	movement, err := b.canMove(piece, from, to)
	if err != nil {
		return Movement{}, err
	}

	mover := b.turn
	b.apply(piece, movement)
	b.turns = append(b.turns, Turn{
		Color:    mover,
		Number:   b.moveNumber,
		Kind:     TurnMove,
		Piece:    piece,
		Movement: &movement,
	})

	switch {
	case movement.Captured != nil && movement.Captured.Type == King:
		b.state = WinnerState(mover)
	case piece.Type == Pawn && to.Y == mover.lastRank():
		// Mate and stalemate wait for the promoted piece.
		b.updateCheck(mover.Opposite())
		b.state = WaitingPromotionState(mover, to)
	default:
		b.resolve(mover)
	}
	b.turns[len(b.turns)-1].Status = b.status()
	return movement, nil
}

// Promote replaces the pawn waiting on the last rank with a piece of type t
// and hands the move to the opponent. It returns the promotion square.
func (b *Board) Promote(t PieceType) (Position, error) {
	if b.state.Kind != WaitingPromotion || b.state.Color != b.turn {
		return Position{}, ErrNoPromotion
	}
	if !t.Valid() || t == Pawn || t == King {
		return Position{}, &InvalidPromotionError{Type: t}
	}

	mover := b.turn
	square := b.state.Square
	pawn := b.at(square)
	b.set(square, Piece{Type: t, Color: mover, HasMoved: pawn.HasMoved})
	b.turns = append(b.turns, Turn{
		Color:     mover,
		Number:    b.moveNumber,
		Kind:      TurnPromotion,
		Piece:     pawn,
		Promotion: &Promotion{Square: square, Type: t},
	})
	b.resolve(mover)
	b.turns[len(b.turns)-1].Status = b.status()
	return square, nil
}

// Resign ends the game in favour of the opponent of the side on move and
// returns the winner. A resignation is final: Undo refuses to run after it.
func (b *Board) Resign() Color {
	winner := b.turn.Opposite()
	b.state = WinnerState(winner)
	b.resigned = true
	return winner
}

// Undo takes back the most recent turn, a move or a promotion choice.
func (b *Board) Undo() error {
	if b.resigned {
		return ErrResigned
	}
	n := len(b.turns)
	if n == 0 {
		return ErrNothingToUndo
	}
	last := b.turns[n-1]
	b.turns = b.turns[:n-1]

	switch last.Kind {
	case TurnPromotion:
		b.set(last.Promotion.Square, last.Piece)
	case TurnMove:
		b.revert(last.Piece, *last.Movement)
	}

	if n == 1 {
		b.restore(b.origin)
	} else {
		b.restore(b.turns[n-2].Status)
	}
	return nil
}

// resolve finishes a turn of mover: it flags check on the opponent, ends the
// game on checkmate or stalemate and otherwise passes the move.
func (b *Board) resolve(mover Color) {
	opponent := mover.Opposite()
	b.updateCheck(opponent)
	if !b.HasLegalMoves(opponent) {
		if b.check == opponent {
			b.state = WinnerState(mover)
		} else {
			b.state = DrawState()
		}
		return
	}
	b.state = InProgressState()
	b.turn = opponent
	if mover == Black {
		b.moveNumber++
	}
}

func (b *Board) updateCheck(c Color) {
	if b.IsKingInCheck(c) {
		b.check = c
	} else {
		b.check = ""
	}
}

// apply performs an already validated movement on the grid.
func (b *Board) apply(piece Piece, m Movement) {
	piece.HasMoved = true
	b.clear(m.From)
	switch m.Kind {
	case EnPassant:
		b.clear(m.CapturedAt())
	case Castling:
		rook := b.at(m.CastleRookMove.From)
		rook.HasMoved = true
		b.clear(m.CastleRookMove.From)
		b.set(m.CastleRookMove.To, rook)
	}
	b.set(m.To, piece)
	if piece.Type == King {
		b.setKingPosition(piece.Color, m.To)
	}
}

// revert is the inverse of apply. prev is the moving piece as it was before
// the move. Castling rooks are known to have been unmoved.
func (b *Board) revert(prev Piece, m Movement) {
	b.clear(m.To)
	switch m.Kind {
	case Capture, EnPassant:
		b.set(m.CapturedAt(), *m.Captured)
	case Castling:
		rook := b.at(m.CastleRookMove.To)
		rook.HasMoved = false
		b.clear(m.CastleRookMove.To)
		b.set(m.CastleRookMove.From, rook)
	}
	b.set(m.From, prev)
	if prev.Type == King {
		b.setKingPosition(prev.Color, m.From)
	}
}
