package engine

import (
	"errors"
	"fmt"
)

// MovementError explains why Board.MovePiece refused a move.
type MovementError int

const (
	// ErrInvalidMovement: the move breaks a geometric, occupancy, path,
	// castling or en passant rule.
	ErrInvalidMovement MovementError = iota + 1
	// ErrInvalidPiece: no piece on the source square, or it belongs to the
	// side not on move.
	ErrInvalidPiece
	// ErrCheckNotResolved is kept for API compatibility. Moves that leave the
	// mover in check are reported as ErrCreatesOwnCheck.
	ErrCheckNotResolved
	// ErrCreatesOwnCheck: the move would leave the mover's king attacked.
	ErrCreatesOwnCheck
	ErrSamePosition
	// ErrPromotionNotSpecified: a promotion choice is pending.
	ErrPromotionNotSpecified
	ErrGameIsOver
)

func (e MovementError) Error() string {
	switch e {
	case ErrInvalidMovement:
		return "invalid movement"
	case ErrInvalidPiece:
		return "invalid piece"
	case ErrCheckNotResolved:
		return "check not resolved"
	case ErrCreatesOwnCheck:
		return "creates own check"
	case ErrSamePosition:
		return "same position"
	case ErrPromotionNotSpecified:
		return "promotion not specified"
	case ErrGameIsOver:
		return "game is over"
	}
	return fmt.Sprintf("movement error %d", int(e))
}

var (
	// ErrNoPromotion is returned by Promote when no promotion is pending for
	// the side on move.
	ErrNoPromotion = errors.New("no promotion")

	// ErrInvalidPromotion is the sentinel wrapped by InvalidPromotionError.
	ErrInvalidPromotion = errors.New("invalid promotion")

	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrResigned is returned by Undo once a side has resigned.
	ErrResigned = errors.New("game was resigned")

	// ErrInvalidSetup is returned by NewBoardFromPieces for impossible positions.
	ErrInvalidSetup = errors.New("invalid board setup")
)

// InvalidPromotionError carries the piece type a caller tried to promote to.
type InvalidPromotionError struct {
	Type PieceType
}

func (e *InvalidPromotionError) Error() string {
	return fmt.Sprintf("invalid promotion to: %s", e.Type)
}

func (e *InvalidPromotionError) Unwrap() error {
	return ErrInvalidPromotion
}
