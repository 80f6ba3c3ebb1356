// Package room runs one two-player game: it seats the players, checks that
// commands come from the side on move, keeps the clocks and the move log, and
// pushes every result to both connections.
package room

import (
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/logger"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

const DefaultClockLimit = 10 * time.Minute

// Sender is the write side of a player connection. *websocket.Conn
// satisfies it.
type Sender interface {
	WriteJSON(v any) error
}

// Summary describes a finished game. Round counts the games played in the
// room, starting at 1. Winner is empty on a draw.
type Summary struct {
	ID         string
	Round      int
	White      string
	Black      string
	Winner     engine.Color
	Reason     string
	Moves      []ws.TurnMove
	StartedAt  time.Time
	FinishedAt time.Time
}

// Notation lists the plies in coordinate form. A promotion choice is folded
// into the move it completes ("e7e8q").
func (s Summary) Notation() []string {
	out := make([]string, 0, len(s.Moves))
	for _, m := range s.Moves {
		switch {
		case m.Movement != nil:
			out = append(out, engine.SimpleMove{From: m.Movement.From, To: m.Movement.To}.String())
		case m.Promotion != nil && len(out) > 0:
			out[len(out)-1] += promotionLetter(m.Promotion.Type)
		}
	}
	return out
}

func promotionLetter(t engine.PieceType) string {
	switch t {
	case engine.Rook:
		return "r"
	case engine.Bishop:
		return "b"
	case engine.Knight:
		return "n"
	}
	return "q"
}

type Option func(*Room)

func WithClockLimit(d time.Duration) Option {
	return func(r *Room) { r.clockLimit = d }
}

// WithNow replaces time.Now, for tests.
func WithNow(now func() time.Time) Option {
	return func(r *Room) { r.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Room) { r.log = l }
}

// WithOnFinish registers a hook called once per finished game, outside the
// room lock.
func WithOnFinish(fn func(Summary)) Option {
	return func(r *Room) { r.onFinish = fn }
}

// Room is safe for concurrent use. Every method holds the room lock for its
// whole duration, so board access and connection writes are serialized.
type Room struct {
	ID string

	mu         sync.Mutex
	board      *engine.Board
	white      string
	black      string
	conns      map[string]Sender
	moves      []ws.TurnMove
	clockLimit time.Duration
	clocks     map[engine.Color]*Clock
	startedAt  time.Time
	createdAt  time.Time
	rounds     int
	pending    *Summary

	now      func() time.Time
	log      *logger.Logger
	onFinish func(Summary)
}

func New(id string, opts ...Option) *Room {
	r := &Room{
		ID:         id,
		board:      engine.NewBoard(),
		conns:      make(map[string]Sender),
		clockLimit: DefaultClockLimit,
		now:        time.Now,
		log:        logger.Default().WithPrefix("room"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithField("room", id)
	r.clocks = map[engine.Color]*Clock{
		engine.White: NewClock(r.clockLimit),
		engine.Black: NewClock(r.clockLimit),
	}
	r.createdAt = r.now()
	return r
}

// AddPlayer seats playerID: the first player plays white, the second black.
// The clock of the side on move starts once both seats are taken.
func (r *Room) AddPlayer(playerID string) (engine.Color, error) {
	if playerID == "" {
		return "", ErrEmptyPlayerID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.colorOf(playerID); ok {
		return "", ErrClientAlreadyInRoom
	}
	var color engine.Color
	switch {
	case r.white == "":
		r.white, color = playerID, engine.White
	case r.black == "":
		r.black, color = playerID, engine.Black
	default:
		return "", ErrRoomFull
	}
	r.log.Info("player %s seated as %s", playerID, color)
	if r.full() {
		r.start(r.now())
	}
	return color, nil
}

// RegisterConnection attaches conn to a seated player, replacing an older
// connection. The player receives the full game, the opponent a notice.
func (r *Room) RegisterConnection(playerID string, conn Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, ok := r.colorOf(playerID)
	if !ok {
		return ErrClientNotInRoom
	}
	r.conns[playerID] = conn
	r.log.Debug("connection registered for %s", playerID)

	snap := r.snapshot()
	r.send(playerID, ws.MessageTypeConnect, ws.ConnectPayload{PlayerID: playerID, Color: color, Self: true, Game: &snap})
	if opp := r.opponentOf(playerID); opp != "" {
		r.send(opp, ws.MessageTypeConnect, ws.ConnectPayload{PlayerID: playerID, Color: color})
	}
	return nil
}

// UnregisterConnection drops conn if it is still the player's current
// connection; a stale connection closing after a reconnect is ignored.
func (r *Room) UnregisterConnection(playerID string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[playerID]; !ok || cur != conn {
		return
	}
	delete(r.conns, playerID)
	r.log.Debug("connection closed for %s", playerID)
	if opp := r.opponentOf(playerID); opp != "" {
		r.send(opp, ws.MessageTypeDisconnect, ws.DisconnectPayload{PlayerID: playerID})
	}
}

// SendError reports err to playerID only.
func (r *Room) SendError(playerID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send(playerID, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
}

// Move plays from-to for playerID. Room errors and engine errors are
// returned unchanged; nothing is broadcast on failure.
func (r *Room) Move(playerID string, from, to engine.Position) error {
	r.mu.Lock()
	err := r.move(playerID, from, to)
	done := r.takePending()
	r.mu.Unlock()
	r.finish(done)
	return err
}

func (r *Room) move(playerID string, from, to engine.Position) error {
	now := r.now()
	mover, err := r.canPlay(playerID, now)
	if err != nil {
		return err
	}
	m, err := r.board.MovePiece(from, to)
	if err != nil {
		return err
	}

	turn, _ := r.board.LastTurn()
	piece, _ := r.board.PieceAt(to)
	r.moves = append(r.moves, ws.TurnMove{TurnNumber: turn.Number, Piece: piece, PlayerID: playerID, Movement: &m})
	r.passClock(mover, now)

	promotion, _ := r.board.PromotionColor()
	check, _ := r.board.Check()
	r.broadcast(ws.MessageTypeMovement, ws.MovementPayload{
		PlayerID:   playerID,
		Movement:   m,
		Notation:   m.String(),
		Promotion:  promotion,
		Check:      check,
		TurnNumber: turn.Number,
		State:      r.board.State(),
		Clocks:     r.clockTimes(now),
	})
	r.log.Debug("%s played %s", mover, m)
	r.announceEnd(now)
	return nil
}

// Promote completes a pending promotion of playerID.
func (r *Room) Promote(playerID string, t engine.PieceType) error {
	r.mu.Lock()
	err := r.promote(playerID, t)
	done := r.takePending()
	r.mu.Unlock()
	r.finish(done)
	return err
}

func (r *Room) promote(playerID string, t engine.PieceType) error {
	now := r.now()
	mover, err := r.canPlay(playerID, now)
	if err != nil {
		return err
	}
	square, err := r.board.Promote(t)
	if err != nil {
		return err
	}

	turn, _ := r.board.LastTurn()
	r.moves = append(r.moves, ws.TurnMove{TurnNumber: turn.Number, Piece: turn.Piece, PlayerID: playerID, Promotion: turn.Promotion})
	r.passClock(mover, now)

	check, _ := r.board.Check()
	r.broadcast(ws.MessageTypePromotion, ws.PromotionPayload{
		PlayerID: playerID,
		Square:   square,
		Piece:    t,
		Check:    check,
		State:    r.board.State(),
		Clocks:   r.clockTimes(now),
	})
	r.announceEnd(now)
	return nil
}

// Resign ends the game in favour of the opponent. Only the side on move may
// resign.
func (r *Room) Resign(playerID string) error {
	r.mu.Lock()
	err := r.resign(playerID)
	done := r.takePending()
	r.mu.Unlock()
	r.finish(done)
	return err
}

func (r *Room) resign(playerID string) error {
	now := r.now()
	if _, err := r.canPlay(playerID, now); err != nil {
		return err
	}
	winner := r.board.Resign()
	r.broadcast(ws.MessageTypeWinner, ws.WinnerPayload{Color: winner, Reason: ws.ReasonResignation})
	r.end(winner, ws.ReasonResignation, now)
	return nil
}

// Reset starts a new game with the same players once the current one is
// over. Either player may ask for it.
func (r *Room) Reset(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.colorOf(playerID); !ok {
		return ErrClientNotInRoom
	}
	if !r.board.State().IsOver() {
		return ErrGameNotOver
	}
	r.board.Reset()
	r.moves = nil
	for _, c := range r.clocks {
		c.Reset()
	}
	if r.full() {
		r.start(r.now())
	}
	r.broadcast(ws.MessageTypeResetDone, ws.ResetPayload{PlayerID: playerID, Game: r.snapshot()})
	r.log.Info("game reset by %s", playerID)
	return nil
}

// Tick ends the game when the side on move has run out of time and reports
// whether it did.
func (r *Room) Tick(now time.Time) bool {
	r.mu.Lock()
	ended := r.checkTimeout(now)
	done := r.takePending()
	r.mu.Unlock()
	r.finish(done)
	return ended
}

func (r *Room) Snapshot() ws.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// LegalMoves lists the destinations of the piece on from, whoever's turn it
// is.
func (r *Room) LegalMoves(from engine.Position) []engine.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.LegalMoves(from)
}

func (r *Room) Players() (white, black string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.white, r.black
}

func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.colorOf(playerID)
	return ok
}

// Connections is the number of attached player connections.
func (r *Room) Connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

func (r *Room) IsOver() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.State().IsOver()
}

func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Room) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case playerID == r.white:
		return engine.White, true
	case playerID == r.black:
		return engine.Black, true
	}
	return "", false
}

func (r *Room) opponentOf(playerID string) string {
	switch playerID {
	case r.white:
		return r.black
	case r.black:
		return r.white
	}
	return ""
}

func (r *Room) full() bool {
	return r.white != "" && r.black != ""
}

// canPlay checks, in order, that playerID is seated, that both seats are
// taken, that the game is still running and that it is playerID's turn.
func (r *Room) canPlay(playerID string, now time.Time) (engine.Color, error) {
	color, ok := r.colorOf(playerID)
	if !ok {
		return "", ErrClientNotInRoom
	}
	if !r.full() {
		return "", ErrNotEnoughPlayers
	}
	if r.checkTimeout(now) || r.board.State().IsOver() {
		return "", engine.ErrGameIsOver
	}
	if color != r.board.Turn() {
		return "", ErrNotYourTurn
	}
	return color, nil
}

func (r *Room) start(now time.Time) {
	r.startedAt = now
	r.clocks[r.board.Turn()].Start(now)
}

// passClock hands the running clock to the opponent once mover's turn is
// complete. It keeps running while mover owes a promotion choice.
func (r *Room) passClock(mover engine.Color, now time.Time) {
	switch {
	case r.board.State().IsOver():
		r.stopClocks(now)
	case r.board.Turn() != mover:
		r.clocks[mover].Stop(now)
		r.clocks[r.board.Turn()].Start(now)
	}
}

func (r *Room) stopClocks(now time.Time) {
	for _, c := range r.clocks {
		c.Stop(now)
	}
}

func (r *Room) clockTimes(now time.Time) ws.Clocks {
	return ws.Clocks{
		White: r.clocks[engine.White].TimeLeft(now).Milliseconds(),
		Black: r.clocks[engine.Black].TimeLeft(now).Milliseconds(),
	}
}

func (r *Room) checkTimeout(now time.Time) bool {
	if !r.full() || r.board.State().IsOver() {
		return false
	}
	if !r.clocks[r.board.Turn()].Expired(now) {
		return false
	}
	winner := r.board.Resign()
	r.broadcast(ws.MessageTypeWinner, ws.WinnerPayload{Color: winner, Reason: ws.ReasonTimeout})
	r.end(winner, ws.ReasonTimeout, now)
	return true
}

// announceEnd broadcasts the result once a move or promotion finished the
// game.
func (r *Room) announceEnd(now time.Time) {
	state := r.board.State()
	switch state.Kind {
	case engine.Winner:
		r.broadcast(ws.MessageTypeWinner, ws.WinnerPayload{Color: state.Color, Reason: ws.ReasonCheckmate})
		r.end(state.Color, ws.ReasonCheckmate, now)
	case engine.Draw:
		r.broadcast(ws.MessageTypeDraw, ws.DrawPayload{Reason: ws.ReasonStalemate})
		r.end("", ws.ReasonStalemate, now)
	}
}

func (r *Room) end(winner engine.Color, reason string, now time.Time) {
	r.stopClocks(now)
	r.rounds++
	r.pending = &Summary{
		ID:         r.ID,
		Round:      r.rounds,
		White:      r.white,
		Black:      r.black,
		Winner:     winner,
		Reason:     reason,
		Moves:      append([]ws.TurnMove(nil), r.moves...),
		StartedAt:  r.startedAt,
		FinishedAt: now,
	}
	r.log.Info("game over: winner=%q reason=%s", winner, reason)
}

func (r *Room) takePending() *Summary {
	s := r.pending
	r.pending = nil
	return s
}

func (r *Room) finish(s *Summary) {
	if s != nil && r.onFinish != nil {
		r.onFinish(*s)
	}
}

func (r *Room) snapshot() ws.Snapshot {
	now := r.now()
	var grid [8][8]*engine.Piece
	pieces := r.board.Pieces()
	for y := range pieces {
		for x := range pieces[y] {
			if p := pieces[y][x]; !p.IsZero() {
				grid[y][x] = &p
			}
		}
	}
	check, _ := r.board.Check()
	promotion, _ := r.board.PromotionColor()
	return ws.Snapshot{
		ID:         r.ID,
		White:      r.white,
		Black:      r.black,
		Pieces:     grid,
		Turn:       r.board.Turn(),
		TurnNumber: r.board.MoveNumber(),
		Moves:      append([]ws.TurnMove{}, r.moves...),
		Check:      check,
		Promotion:  promotion,
		State:      r.board.State(),
		Clocks:     r.clockTimes(now),
	}
}

func (r *Room) send(playerID string, t ws.MessageType, payload any) {
	conn, ok := r.conns[playerID]
	if !ok {
		return
	}
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		r.log.Error("failed to encode %s message: %v", t, err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		r.log.Warn("failed to send %s to %s, dropping connection: %v", t, playerID, err)
		delete(r.conns, playerID)
	}
}

func (r *Room) broadcast(t ws.MessageType, payload any) {
	for _, id := range []string{r.white, r.black} {
		if id != "" {
			r.send(id, t, payload)
		}
	}
}
