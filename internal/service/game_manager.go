package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/logger"
	"github.com/benbeisheim/chess-backend/internal/room"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Archive is the game archive. *store.Store implements it.
type Archive interface {
	SaveGame(ctx context.Context, g store.Game) error
	GetGame(ctx context.Context, id string) (store.Game, error)
	ListGames(ctx context.Context, limit int) ([]store.Game, error)
}

const (
	defaultMatchmakingInterval = time.Second
	defaultRoomTTL             = 30 * time.Minute
	archiveTimeout             = 5 * time.Second
)

// GameManager owns every room, the matchmaking queue and the channels that
// waiting players listen on.
type GameManager struct {
	rooms            map[string]*room.Room
	queue            *Queue
	matchingChannels map[string]chan ws.MatchFoundEvent
	// pendingMatches holds events for players matched before their
	// matchmaking socket was registered.
	pendingMatches map[string]ws.MatchFoundEvent
	mu             sync.RWMutex

	archive    Archive
	clockLimit time.Duration
	interval   time.Duration
	roomTTL    time.Duration
	newID      func() string
	now        func() time.Time
	log        *logger.Logger
}

type ManagerOption func(*GameManager)

func WithArchive(a Archive) ManagerOption {
	return func(gm *GameManager) { gm.archive = a }
}

func WithClockLimit(d time.Duration) ManagerOption {
	return func(gm *GameManager) { gm.clockLimit = d }
}

func WithMatchmakingInterval(d time.Duration) ManagerOption {
	return func(gm *GameManager) { gm.interval = d }
}

// WithRoomTTL sets how long an unfinished room without connections is kept.
func WithRoomTTL(d time.Duration) ManagerOption {
	return func(gm *GameManager) { gm.roomTTL = d }
}

func WithIDGenerator(fn func() string) ManagerOption {
	return func(gm *GameManager) { gm.newID = fn }
}

func WithNow(now func() time.Time) ManagerOption {
	return func(gm *GameManager) { gm.now = now }
}

func WithLogger(l *logger.Logger) ManagerOption {
	return func(gm *GameManager) { gm.log = l }
}

func NewGameManager(opts ...ManagerOption) *GameManager {
	gm := &GameManager{
		rooms:            make(map[string]*room.Room),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan ws.MatchFoundEvent),
		pendingMatches:   make(map[string]ws.MatchFoundEvent),
		clockLimit:       room.DefaultClockLimit,
		interval:         defaultMatchmakingInterval,
		roomTTL:          defaultRoomTTL,
		newID:            uuid.NewString,
		now:              time.Now,
		log:              logger.Default(),
	}
	for _, opt := range opts {
		opt(gm)
	}
	gm.log = gm.log.WithPrefix("lobby")
	gm.queue.now = gm.now
	return gm
}

// Run pairs queued players, flags expired clocks and reaps idle rooms on
// every tick until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.interval)
	defer ticker.Stop()

	gm.log.Info("matchmaking started, interval=%s", gm.interval)
	for {
		select {
		case <-ctx.Done():
			gm.log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			now := gm.now()
			gm.processMatchmaking()
			gm.tickClocks(now)
			gm.reapRooms(now)
		}
	}
}

// processMatchmaking seats every complete pair in a new room and returns the
// number of rooms created.
func (gm *GameManager) processMatchmaking() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	matched := 0
	for {
		p1, p2, ok := gm.queue.GetNextPair()
		if !ok {
			return matched
		}
		gameID := gm.newID()
		r := gm.newRoom(gameID)

		p1Color, err := r.AddPlayer(p1.ID)
		if err != nil {
			gm.log.Error("failed to seat %q in %s: %v, requeueing %s", p1.ID, gameID, err, p2.ID)
			gm.queue.requeue(p2)
			continue
		}
		p2Color, err := r.AddPlayer(p2.ID)
		if err != nil {
			gm.log.Error("failed to seat %q in %s: %v, requeueing %s", p2.ID, gameID, err, p1.ID)
			gm.queue.requeue(p1)
			continue
		}
		gm.rooms[gameID] = r
		gm.log.Info("matched %s and %s in %s", p1.ID, p2.ID, gameID)

		gm.notifyMatch(p1.ID, ws.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(p2.ID, ws.MatchFoundEvent{GameID: gameID, Color: p2Color})
		matched++
	}
}

// notifyMatch delivers ev on the player's channel and closes it, or keeps it
// until the player registers one. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, ev ws.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.pendingMatches[playerID] = ev
		return
	}
	delete(gm.matchingChannels, playerID)
	select {
	case ch <- ev:
		gm.log.Debug("sent match found event to %s", playerID)
	default:
		gm.log.Warn("matchmaking channel of %s is full, keeping event", playerID)
		gm.pendingMatches[playerID] = ev
	}
	close(ch)
}

// RegisterMatchmakingChannel makes ch the player's match channel. ch must be
// buffered. A channel registered earlier is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan ws.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.log.Debug("registering matchmaking channel for %s", playerID)

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
	if ev, ok := gm.pendingMatches[playerID]; ok {
		delete(gm.pendingMatches, playerID)
		gm.notifyMatch(playerID, ev)
	}
}

// UnregisterMatchmakingChannel drops ch if it is still registered and takes
// the player out of the queue. The channel itself is left to its owner.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan ws.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if cur, ok := gm.matchingChannels[playerID]; !ok || cur != ch {
		return
	}
	delete(gm.matchingChannels, playerID)
	if gm.queue.RemovePlayer(playerID) {
		gm.log.Debug("%s left the matchmaking queue", playerID)
	}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(playerID); err != nil {
		gm.log.Warn("failed to queue %s: %v", playerID, err)
		return err
	}
	gm.log.Info("%s joined matchmaking, queue size %d", playerID, gm.queue.Size())
	return nil
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.rooms[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	gm.rooms[gameID] = gm.newRoom(gameID)
	gm.log.Info("created game %s", gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*room.Room, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	r, exists := gm.rooms[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return r, nil
}

func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (engine.Color, error) {
	r, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	color, err := r.AddPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("join %s: %w", gameID, err)
	}
	return color, nil
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.rooms)
}

func (gm *GameManager) newRoom(gameID string) *room.Room {
	return room.New(gameID,
		room.WithClockLimit(gm.clockLimit),
		room.WithNow(gm.now),
		room.WithLogger(gm.log.WithPrefix("room")),
		room.WithOnFinish(gm.archiveGame),
	)
}

func (gm *GameManager) roomList() []*room.Room {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	out := make([]*room.Room, 0, len(gm.rooms))
	for _, r := range gm.rooms {
		out = append(out, r)
	}
	return out
}

func (gm *GameManager) tickClocks(now time.Time) {
	for _, r := range gm.roomList() {
		r.Tick(now)
	}
}

// reapRooms drops rooms nobody is connected to once their game is over or
// they have outlived the room TTL, along with undelivered match events for
// them.
func (gm *GameManager) reapRooms(now time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, r := range gm.rooms {
		if r.Connections() > 0 {
			continue
		}
		if r.IsOver() || now.Sub(r.CreatedAt()) > gm.roomTTL {
			delete(gm.rooms, id)
			reaped++
			gm.log.Debug("reaped room %s", id)
		}
	}
	for playerID, ev := range gm.pendingMatches {
		if _, ok := gm.rooms[ev.GameID]; !ok {
			delete(gm.pendingMatches, playerID)
		}
	}
	return reaped
}

func (gm *GameManager) archiveGame(s room.Summary) {
	if gm.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if err := gm.archive.SaveGame(ctx, archivedGame(s)); err != nil {
		gm.log.Error("failed to archive game %s: %v", s.ID, err)
	}
}

// archivedGame converts a room summary. Rooms that were reset archive their
// later games as "<id>-<round>".
func archivedGame(s room.Summary) store.Game {
	id := s.ID
	if s.Round > 1 {
		id = fmt.Sprintf("%s-%d", s.ID, s.Round)
	}
	result := store.ResultDraw
	switch s.Winner {
	case engine.White:
		result = store.ResultWhite
	case engine.Black:
		result = store.ResultBlack
	}
	moves := s.Notation()
	return store.Game{
		ID:          id,
		WhitePlayer: s.White,
		BlackPlayer: s.Black,
		Result:      result,
		Reason:      s.Reason,
		Moves:       moves,
		PlyCount:    len(moves),
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
	}
}
