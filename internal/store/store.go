// Package store archives finished games in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/benbeisheim/chess-backend/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrNotFound = errors.New("game not found")

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Result values of an archived game.
const (
	ResultWhite = "white"
	ResultBlack = "black"
	ResultDraw  = "draw"
)

// Game is one archived game. Moves holds the plies in coordinate notation,
// promotions suffixed with the piece letter ("e7e8q").
type Game struct {
	ID          string    `json:"id"`
	WhitePlayer string    `json:"whitePlayer"`
	BlackPlayer string    `json:"blackPlayer"`
	Result      string    `json:"result"`
	Reason      string    `json:"reason"`
	Moves       []string  `json:"moves"`
	PlyCount    int       `json:"plyCount"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

type Store struct {
	db  *sql.DB
	log *logger.Logger
}

var gameColumns = []string{
	"id", "white_player", "black_player", "result", "reason", "moves", "ply_count", "started_at", "finished_at",
}

// Open opens or creates the database at path (a file name or a sqlite
// "file:" URI) and applies the schema.
func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("store")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"
	log.Info("opening database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer keeps SQLite from reporting busy under concurrent archiving.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("database ready")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		body, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return err
		}
		s.log.Debug("applying migration: %s", entry.Name())
		if _, err := s.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGame inserts g, replacing an earlier record with the same id.
func (s *Store) SaveGame(ctx context.Context, g Game) error {
	log := logger.FromContext(ctx).WithPrefix("store")

	moves, err := json.Marshal(g.Moves)
	if err != nil {
		return err
	}
	if g.Moves == nil {
		moves = []byte("[]")
	}
	query, args, err := sqlBuilder.Insert("games").
		Options("OR REPLACE").
		Columns(gameColumns...).
		Values(g.ID, g.WhitePlayer, g.BlackPlayer, g.Result, g.Reason, string(moves), g.PlyCount,
			g.StartedAt.UTC(), g.FinishedAt.UTC()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save game %s: %v", g.ID, err)
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	log.Debug("archived game %s: result=%s reason=%s plies=%d", g.ID, g.Result, g.Reason, g.PlyCount)
	return nil
}

func (s *Store) GetGame(ctx context.Context, id string) (Game, error) {
	query, args, err := sqlBuilder.Select(gameColumns...).
		From("games").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Game{}, err
	}
	g, err := scanGame(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, err
}

// ListGames returns the most recently finished games first. A limit of zero
// or less means 50.
func (s *Store) ListGames(ctx context.Context, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 50
	}
	query, args, err := sqlBuilder.Select(gameColumns...).
		From("games").
		OrderBy("finished_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (Game, error) {
	var (
		g     Game
		moves string
	)
	if err := row.Scan(&g.ID, &g.WhitePlayer, &g.BlackPlayer, &g.Result, &g.Reason, &moves, &g.PlyCount,
		&g.StartedAt, &g.FinishedAt); err != nil {
		return Game{}, err
	}
	if err := json.Unmarshal([]byte(moves), &g.Moves); err != nil {
		return Game{}, fmt.Errorf("decode moves of %s: %w", g.ID, err)
	}
	return g, nil
}
