package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/kitchen/internal/domain/model"
	"github.com/okian/kitchen/pkg/metrics"
)

const schema = `CREATE TABLE IF NOT EXISTS leaderboard (
	player TEXT PRIMARY KEY,
	score  INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0)
)`

// SQLiteStore keeps the board in an embedded SQLite database. Increments are a
// single UPSERT so concurrent writers cannot lose updates.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func observeSQLite(op string, start time.Time) {
	metrics.RecordLeaderboardLatency(BackendSQLite, op, float64(time.Since(start).Milliseconds()))
}

// Load creates the table when absent.
func (s *SQLiteStore) Load(ctx context.Context) error {
	defer observeSQLite("load", time.Now())
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		metrics.RecordErrorByComponent("repository", "load")
		return fmt.Errorf("load leaderboard: %w", err)
	}
	metrics.UpdateLeaderboardPlayers(s.Count(ctx))
	return nil
}

// Update adds the clamped delta in one statement.
func (s *SQLiteStore) Update(ctx context.Context, player string, delta int) (Entry, error) {
	defer observeSQLite("update", time.Now())
	player = model.NormalizePlayer(player)
	if player == "" {
		metrics.RecordErrorByComponent("repository", "invalid_player")
		return Entry{}, ErrInvalidPlayer
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO leaderboard (player, score) VALUES (?, ?)
		 ON CONFLICT (player) DO UPDATE SET score = score + excluded.score
		 RETURNING score`,
		player, clampDelta(delta)).Scan(&total)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "persist")
		return Entry{}, fmt.Errorf("update %s: %w", player, err)
	}
	rank, err := s.rankOf(ctx, total)
	if err != nil {
		return Entry{}, err
	}
	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardPlayers(s.Count(ctx))
	return Entry{Rank: rank, Player: player, Score: total}, nil
}

// Display returns the full board.
func (s *SQLiteStore) Display(ctx context.Context) ([]Entry, error) {
	defer observeSQLite("display", time.Now())
	return s.query(ctx, `SELECT player, score FROM leaderboard ORDER BY score DESC, player ASC`)
}

// TopN returns the top n rows.
func (s *SQLiteStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	defer observeSQLite("top_n", time.Now())
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	return s.query(ctx, `SELECT player, score FROM leaderboard ORDER BY score DESC, player ASC LIMIT ?`, n)
}

// Rank returns the dense rank and score for player.
func (s *SQLiteStore) Rank(ctx context.Context, player string) (Entry, error) {
	defer observeSQLite("rank", time.Now())
	player = model.NormalizePlayer(player)

	var score int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM leaderboard WHERE player = ?`, player).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("rank %s: %w", player, err)
	}
	rank, err := s.rankOf(ctx, score)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Rank: rank, Player: player, Score: score}, nil
}

// Count returns the number of players, or 0 when the table cannot be read.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) rankOf(ctx context.Context, score int) (int, error) {
	var above int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT score) FROM leaderboard WHERE score > ?`, score).Scan(&above)
	if err != nil {
		return 0, fmt.Errorf("rank lookup: %w", err)
	}
	return above + 1, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Player, &e.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	assignRanks(out)
	return out, nil
}
