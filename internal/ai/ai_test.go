package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/ai"
	"github.com/benbeisheim/chess-backend/internal/engine"
)

func TestNextMoveIsLegal(t *testing.T) {
	board := engine.NewBoard()
	p := ai.New(1)
	for i := 0; i < 20; i++ {
		m, err := p.NextMove(board)
		require.NoError(t, err)
		assert.Contains(t, board.AllLegalMoves(), m)
	}
}

func TestSameSeedSameGame(t *testing.T) {
	play := func(seed uint64) []engine.Turn {
		board := engine.NewBoard()
		p := ai.New(seed)
		for i := 0; i < 40 && !board.State().IsOver(); i++ {
			_, err := p.Play(board)
			require.NoError(t, err)
		}
		return board.History()
	}
	assert.Equal(t, play(42), play(42))
}

func TestNoLegalMoves(t *testing.T) {
	board := engine.NewBoard()
	for _, m := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		_, err := board.MovePiece(engine.MustParsePosition(m[0]), engine.MustParsePosition(m[1]))
		require.NoError(t, err)
	}

	_, err := ai.New(3).NextMove(board)
	assert.ErrorIs(t, err, ai.ErrNoLegalMoves)
	_, err = ai.New(3).Play(board)
	assert.ErrorIs(t, err, ai.ErrNoLegalMoves)
}

func TestPlayPromotesToQueen(t *testing.T) {
	var grid [8][8]engine.Piece
	grid[0][0] = engine.Piece{Type: engine.King, Color: engine.White, HasMoved: true}
	grid[7][7] = engine.Piece{Type: engine.King, Color: engine.Black, HasMoved: true}
	grid[6][3] = engine.Piece{Type: engine.Pawn, Color: engine.White, HasMoved: true}
	board, err := engine.NewBoardFromPieces(grid, engine.White)
	require.NoError(t, err)

	_, err = board.MovePiece(engine.MustParsePosition("d7"), engine.MustParsePosition("d8"))
	require.NoError(t, err)

	action, err := ai.New(9).Play(board)
	require.NoError(t, err)
	require.NotNil(t, action.Promotion)
	assert.Nil(t, action.Movement)
	assert.Equal(t, engine.Queen, action.Promotion.Type)
	assert.Equal(t, engine.MustParsePosition("d8"), action.Promotion.Square)

	piece, _ := board.PieceAt(engine.MustParsePosition("d8"))
	assert.Equal(t, engine.Queen, piece.Type)
}

func TestPlayMoves(t *testing.T) {
	board := engine.NewBoard()
	action, err := ai.New(5).Play(board)
	require.NoError(t, err)
	require.NotNil(t, action.Movement)
	assert.Equal(t, engine.Black, board.Turn())
}
