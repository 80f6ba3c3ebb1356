package engine

import "encoding/json"

type StateKind string

const (
	InProgress       StateKind = "inProgress"
	WaitingPromotion StateKind = "waitingPromotion"
	Winner           StateKind = "winner"
	Draw             StateKind = "draw"
)

// GameState is the top level state of a board. Color is the side waiting to
// promote or the winner; Square is the promotion square.
type GameState struct {
	Kind   StateKind
	Color  Color
	Square Position
}

func InProgressState() GameState {
	return GameState{Kind: InProgress}
}

func WaitingPromotionState(c Color, square Position) GameState {
	return GameState{Kind: WaitingPromotion, Color: c, Square: square}
}

func WinnerState(c Color) GameState {
	return GameState{Kind: Winner, Color: c}
}

func DrawState() GameState {
	return GameState{Kind: Draw}
}

// IsOver reports whether the state is terminal.
func (s GameState) IsOver() bool {
	return s.Kind == Winner || s.Kind == Draw
}

func (s GameState) String() string {
	switch s.Kind {
	case WaitingPromotion:
		return "waiting for " + string(s.Color) + " promotion on " + s.Square.String()
	case Winner:
		return string(s.Color) + " wins"
	}
	return string(s.Kind)
}

func (s GameState) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   StateKind `json:"kind"`
		Color  Color     `json:"color,omitempty"`
		Square *Position `json:"square,omitempty"`
	}{Kind: s.Kind, Color: s.Color}
	if s.Kind == WaitingPromotion {
		sq := s.Square
		out.Square = &sq
	}
	return json.Marshal(out)
}
