package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/ai"
	"github.com/benbeisheim/chess-backend/internal/engine"
)

var errInvalidInput = errors.New("invalid input")

// Game is a human versus computer match on a text terminal. The human plays
// white.
type Game struct {
	board  *engine.Board
	ai     *ai.Player
	human  engine.Color
	render func(*engine.Board) string
}

func NewGame(seed uint64, colored bool) *Game {
	g := &Game{
		board:  engine.NewBoard(),
		ai:     ai.New(seed),
		human:  engine.White,
		render: (*engine.Board).String,
	}
	if colored {
		g.render = (*engine.Board).ColorString
	}
	return g
}

// Run plays until the game ends or in runs out. Running out of input is not
// an error.
func (g *Game) Run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(out, "Welcome to chess!")
	fmt.Fprintln(out, "Enter moves as 'e2 e4', 'undo' to take back your last move.")
	fmt.Fprintln(out, g.render(g.board))

	for !g.board.State().IsOver() {
		if g.board.Turn() != g.human {
			if _, err := g.ai.Play(g.board); err != nil {
				return fmt.Errorf("computer move: %w", err)
			}
			fmt.Fprintln(out, g.render(g.board))
			continue
		}

		if _, waiting := g.board.PromotionColor(); waiting {
			fmt.Fprintln(out, "Promote a piece")
			fmt.Fprintln(out, "Options: Q, R, B, K")
		}
		line, ok := prompt(sc, out)
		if !ok {
			return sc.Err()
		}
		if err := g.handle(line); err != nil {
			fmt.Fprintln(out, err)
		}
		fmt.Fprintln(out, g.render(g.board))
	}

	state := g.board.State()
	if state.Kind == engine.Winner {
		fmt.Fprintf(out, "%s wins!\n", state.Color)
	} else {
		fmt.Fprintln(out, "draw")
	}
	return nil
}

func prompt(sc *bufio.Scanner, out io.Writer) (string, bool) {
	fmt.Fprint(out, "> ")
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func (g *Game) handle(line string) error {
	if line == "undo" {
		return g.undo()
	}
	if _, waiting := g.board.PromotionColor(); waiting {
		t, err := parsePromotion(line)
		if err != nil {
			return err
		}
		_, err = g.board.Promote(t)
		return err
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return errInvalidInput
	}
	from, err := engine.ParsePosition(fields[0])
	if err != nil {
		return errInvalidInput
	}
	to, err := engine.ParsePosition(fields[1])
	if err != nil {
		return errInvalidInput
	}
	_, err = g.board.MovePiece(from, to)
	return err
}

// undo takes back turns until it is the human's move again with no
// promotion pending, which always removes at least one human turn.
func (g *Game) undo() error {
	for {
		last, ok := g.board.LastTurn()
		if !ok {
			return engine.ErrNothingToUndo
		}
		if err := g.board.Undo(); err != nil {
			return err
		}
		if last.Color == g.human && last.Kind == engine.TurnMove {
			return nil
		}
	}
}

// parsePromotion reads the promotion menu. K stands for knight as on the
// menu; N is accepted too.
func parsePromotion(s string) (engine.PieceType, error) {
	switch strings.ToUpper(s) {
	case "Q":
		return engine.Queen, nil
	case "R":
		return engine.Rook, nil
	case "B":
		return engine.Bishop, nil
	case "K", "N":
		return engine.Knight, nil
	}
	return "", errInvalidInput
}
