package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/benbeisheim/chess-backend/internal/store"
)

type StoreSuite struct {
	suite.Suite
	store *store.Store
}

func (s *StoreSuite) SetupTest() {
	path := "file:" + filepath.Join(s.T().TempDir(), "test.db")
	st, err := store.Open(path)
	s.Require().NoError(err)
	s.store = st
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func game(id string, finished time.Time) store.Game {
	return store.Game{
		ID:          id,
		WhitePlayer: "alice",
		BlackPlayer: "bob",
		Result:      store.ResultBlack,
		Reason:      "checkmate",
		Moves:       []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		PlyCount:    4,
		StartedAt:   finished.Add(-time.Minute),
		FinishedAt:  finished,
	}
}

func (s *StoreSuite) TestSaveAndGet() {
	ctx := context.Background()
	finished := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	want := game("g1", finished)

	s.Require().NoError(s.store.SaveGame(ctx, want))

	got, err := s.store.GetGame(ctx, "g1")
	s.Require().NoError(err)
	s.Equal(want.Moves, got.Moves)
	s.Equal(want.Result, got.Result)
	s.Equal(want.Reason, got.Reason)
	s.Equal(want.PlyCount, got.PlyCount)
	s.True(want.FinishedAt.Equal(got.FinishedAt), "finished at %s", got.FinishedAt)
	s.True(want.StartedAt.Equal(got.StartedAt), "started at %s", got.StartedAt)
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.GetGame(context.Background(), "missing")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestSaveReplaces() {
	ctx := context.Background()
	g := game("g1", time.Now())
	s.Require().NoError(s.store.SaveGame(ctx, g))

	g.Result = store.ResultDraw
	g.Reason = "stalemate"
	s.Require().NoError(s.store.SaveGame(ctx, g))

	got, err := s.store.GetGame(ctx, "g1")
	s.Require().NoError(err)
	s.Equal(store.ResultDraw, got.Result)

	all, err := s.store.ListGames(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *StoreSuite) TestEmptyMoves() {
	ctx := context.Background()
	g := game("resigned", time.Now())
	g.Moves = nil
	g.PlyCount = 0
	s.Require().NoError(s.store.SaveGame(ctx, g))

	got, err := s.store.GetGame(ctx, "resigned")
	s.Require().NoError(err)
	s.Empty(got.Moves)
}

func (s *StoreSuite) TestListNewestFirst() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		s.Require().NoError(s.store.SaveGame(ctx, game(id, base.Add(time.Duration(i)*time.Hour))))
	}

	games, err := s.store.ListGames(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal("new", games[0].ID)
	s.Equal("mid", games[1].ID)
}

func (s *StoreSuite) TestListEmpty() {
	games, err := s.store.ListGames(context.Background(), 10)
	s.Require().NoError(err)
	s.NotNil(games)
	s.Empty(games)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
