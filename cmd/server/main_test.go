package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/logger"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type testServer struct {
	app *fiber.App
	gs  *service.GameService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	quiet := logger.New(logger.WithOutput(io.Discard))
	prev := logger.Default()
	logger.SetDefault(quiet)
	t.Cleanup(func() { logger.SetDefault(prev) })

	st, err := store.Open("file:" + filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gm := service.NewGameManager(service.WithArchive(st), service.WithLogger(quiet))
	gs := service.NewGameService(gm, st)
	cfg := config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	return &testServer{app: newApp(cfg, gs), gs: gs}
}

// do sends a request as playerID (none when empty) and decodes the JSON
// body into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, playerID string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]any
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["games"])
}

func TestPlayerIDRequired(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/game/create", "", nil))

	req := httptest.NewRequest(http.MethodPost, "/api/game/create?playerId=alice", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGameRoutes(t *testing.T) {
	s := newTestServer(t)

	var created struct {
		GameID string `json:"game_id"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/game/create", "alice", &created))
	require.NotEmpty(t, created.GameID)
	base := "/api/game/"

	var joined struct {
		Color engine.Color `json:"color"`
	}
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"join/"+created.GameID, "alice", &joined))
	assert.Equal(t, engine.White, joined.Color)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, base+"join/"+created.GameID, "alice", nil))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"join/"+created.GameID, "bob", &joined))
	assert.Equal(t, engine.Black, joined.Color)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, base+"join/"+created.GameID, "carol", nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, base+"join/missing", "alice", nil))

	var snap struct {
		ID    string       `json:"id"`
		White string       `json:"white"`
		Black string       `json:"black"`
		Turn  engine.Color `json:"turn"`
	}
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+created.GameID, "carol", &snap))
	assert.Equal(t, created.GameID, snap.ID)
	assert.Equal(t, "alice", snap.White)
	assert.Equal(t, "bob", snap.Black)
	assert.Equal(t, engine.White, snap.Turn)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, base+"missing", "alice", nil))

	var legal struct {
		Square string   `json:"square"`
		Moves  []string `json:"moves"`
	}
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+created.GameID+"/legal/e2", "alice", &legal))
	assert.ElementsMatch(t, []string{"e3", "e4"}, legal.Moves)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, base+created.GameID+"/legal/x0", "alice", nil))
}

func TestSeatsSurviveLaterRequests(t *testing.T) {
	s := newTestServer(t)

	var created struct {
		GameID string `json:"game_id"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/game/create", "alice", &created))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/game/join/"+created.GameID, "alice", nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/game/join/"+created.GameID, "bob", nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/game/matchmaking/join", "carol", nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/game/"+created.GameID, "zzzzz", nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "zzzzz", nil))

	snap, err := s.gs.GetGameState(created.GameID)
	require.NoError(t, err)
	assert.Equal(t, "alice", snap.White)
	assert.Equal(t, "bob", snap.Black)

	move, err := ws.NewMessage(ws.MessageTypeMove, ws.MovePayload{
		From: engine.MustParsePosition("e2"),
		To:   engine.MustParsePosition("e4"),
	})
	require.NoError(t, err)
	assert.NoError(t, s.gs.HandleMessage(created.GameID, "alice", move))
	assert.ErrorIs(t, s.gs.JoinMatchmaking("carol"), service.ErrAlreadyQueued)
}

func TestMatchmakingJoin(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/game/matchmaking/join", "alice", &body))
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/game/matchmaking/join", "alice", nil))
}

func TestArchiveRoutes(t *testing.T) {
	s := newTestServer(t)

	var games []store.Game
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/archive", "alice", &games))
	assert.Empty(t, games)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/archive?limit=0", "alice", nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/archive/missing", "alice", nil))

	id, err := s.gs.CreateGame()
	require.NoError(t, err)
	_, err = s.gs.JoinGame(id, "alice")
	require.NoError(t, err)
	_, err = s.gs.JoinGame(id, "bob")
	require.NoError(t, err)
	resign, err := ws.NewMessage(ws.MessageTypeResign, nil)
	require.NoError(t, err)
	require.NoError(t, s.gs.HandleMessage(id, "alice", resign))

	var g store.Game
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/archive/"+id, "carol", &g))
	assert.Equal(t, store.ResultBlack, g.Result)
	assert.Equal(t, ws.ReasonResignation, g.Reason)
	assert.Equal(t, "alice", g.WhitePlayer)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/archive?limit=5", "alice", &games))
	assert.Len(t, games, 1)
}

func TestWebSocketRoutesRequireUpgrade(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUpgradeRequired, s.do(t, http.MethodGet, "/ws/game/g1", "alice", nil))
	assert.Equal(t, http.StatusUpgradeRequired, s.do(t, http.MethodGet, "/ws/matchmaking", "alice", nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/ws/matchmaking", "", nil))
}
