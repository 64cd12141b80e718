package playtest

import "fmt"

// Verify checks that board is ordered and densely ranked, and that every
// expected player listed on it has the expected score. A page may be truncated
// so expected players missing from board are not an error.
func Verify(expected map[string]int, board []Entry) error {
	seen := make(map[string]int, len(board))
	for i, e := range board {
		if _, dup := seen[e.Player]; dup {
			return fmt.Errorf("%w: player %s listed twice", ErrMismatch, e.Player)
		}
		seen[e.Player] = e.Score

		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first entry has rank %d", ErrMismatch, e.Rank)
			}
			continue
		}
		prev := board[i-1]
		switch {
		case e.Score > prev.Score:
			return fmt.Errorf("%w: entry %d outscores entry %d", ErrMismatch, i, i-1)
		case e.Score == prev.Score && e.Rank != prev.Rank:
			return fmt.Errorf("%w: tied entries %d and %d have ranks %d and %d", ErrMismatch, i-1, i, prev.Rank, e.Rank)
		case e.Score == prev.Score && e.Player < prev.Player:
			return fmt.Errorf("%w: tied entries %d and %d not ordered by name", ErrMismatch, i-1, i)
		case e.Score < prev.Score && e.Rank != prev.Rank+1:
			return fmt.Errorf("%w: entry %d has rank %d after rank %d", ErrMismatch, i, e.Rank, prev.Rank)
		}
	}

	for player, want := range expected {
		if got, ok := seen[player]; ok && got != want {
			return fmt.Errorf("%w: %s has %d, want %d", ErrMismatch, player, got, want)
		}
	}
	return nil
}
