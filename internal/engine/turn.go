package engine

type TurnKind string

const (
	TurnMove      TurnKind = "move"
	TurnPromotion TurnKind = "promotion"
)

type Promotion struct {
	Square Position  `json:"square"`
	Type   PieceType `json:"type"`
}

// Status is the part of the board that is not the grid. Every Turn keeps the
// status the board had right after it, so undo never recomputes anything.
type Status struct {
	Turn       Color     `json:"turn"`
	State      GameState `json:"state"`
	Check      Color     `json:"check,omitempty"`
	WhiteKing  Position  `json:"whiteKing"`
	BlackKing  Position  `json:"blackKing"`
	MoveNumber int       `json:"moveNumber"`
}

// Turn is one entry of the board history. Piece is the acting piece as it
// was before the turn (the pawn, for a promotion).
type Turn struct {
	Color     Color      `json:"color"`
	Number    int        `json:"number"`
	Kind      TurnKind   `json:"kind"`
	Piece     Piece      `json:"piece"`
	Movement  *Movement  `json:"movement,omitempty"`
	Promotion *Promotion `json:"promotion,omitempty"`
	Status    Status     `json:"status"`
}

func (t Turn) isDoubleAdvance() bool {
	return t.Kind == TurnMove && t.Movement != nil && t.Movement.Kind == InitialDoubleAdvance
}
