// Package ai is a computer opponent that plays uniformly random legal moves.
package ai

import (
	"errors"

	"golang.org/x/exp/rand"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Player picks moves for whichever side is on move. A Player is not safe for
// concurrent use.
type Player struct {
	rng *rand.Rand
}

// New returns a player whose choices are fully determined by seed.
func New(seed uint64) *Player {
	return &Player{rng: rand.New(rand.NewSource(seed))}
}

// NextMove picks one of the legal moves of the side on move.
func (p *Player) NextMove(b *engine.Board) (engine.SimpleMove, error) {
	moves := b.AllLegalMoves()
	if len(moves) == 0 {
		return engine.SimpleMove{}, ErrNoLegalMoves
	}
	return moves[p.rng.Intn(len(moves))], nil
}

// Promotion is the piece the player promotes to. It is always a queen.
func (p *Player) Promotion(*engine.Board) engine.PieceType {
	return engine.Queen
}

// Action records what Play did. Movement is set after a move, Promotion
// after a promotion choice.
type Action struct {
	Movement  *engine.Movement
	Promotion *engine.Promotion
}

// Play performs exactly one engine action for the side on move: the pending
// promotion if there is one, otherwise a move.
func (p *Player) Play(b *engine.Board) (Action, error) {
	if c, ok := b.PromotionColor(); ok && c == b.Turn() {
		t := p.Promotion(b)
		square, err := b.Promote(t)
		if err != nil {
			return Action{}, err
		}
		return Action{Promotion: &engine.Promotion{Square: square, Type: t}}, nil
	}
	move, err := p.NextMove(b)
	if err != nil {
		return Action{}, err
	}
	m, err := b.MovePiece(move.From, move.To)
	if err != nil {
		return Action{}, err
	}
	return Action{Movement: &m}, nil
}
