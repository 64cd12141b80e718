// Package repository holds the leaderboard: a cumulative, player-keyed score table.
package repository

import (
	"context"
	"fmt"
	"sort"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
	BackendMemory = "memory"
)

// Entry represents a leaderboard row. Rank is dense and 1-based.
type Entry struct {
	Rank   int
	Player string
	Score  int
}

// Store provides read/write access to the leaderboard.
type Store interface {
	// Load restores persisted state. A missing backing file or table is an empty board.
	Load(ctx context.Context) error

	// Update adds max(0, delta) to player's score, creating the row on first use.
	// The new total is durable before Update returns.
	Update(ctx context.Context, player string, delta int) (Entry, error)

	// Display returns every row by score desc, then player asc.
	Display(ctx context.Context) ([]Entry, error)

	// TopN returns the first n rows of Display.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Rank returns the row for player or ErrNotFound.
	Rank(ctx context.Context, player string) (Entry, error)

	// Count returns the number of players on the board.
	Count(ctx context.Context) int

	Close() error
}

// Open builds the store for backend and loads its state.
func Open(ctx context.Context, backend, path string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch backend {
	case BackendSQLite:
		s, err = NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
	case BackendCSV:
		s = NewTreapStore(WithPersister(NewCSVFile(path)), WithBackendLabel(BackendCSV))
	case BackendMemory:
		s = NewTreapStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err := s.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func clampDelta(delta int) int {
	return max(0, delta)
}

// sortEntries orders by score desc with player asc as tie-breaker.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})
}

// assignRanks gives equal scores the same rank; the next distinct score gets the next rank.
func assignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
