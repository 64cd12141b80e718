package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/kitchen/internal/domain/model"
	"github.com/okian/kitchen/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then player ASC. "less" means ranks earlier, so an
// in-order traversal yields the leaderboard from best to worst.

// Persister makes the in-memory table durable.
type Persister interface {
	// Load returns the stored table. A missing store yields an empty map.
	Load(ctx context.Context) (map[string]int, error)
	// Save overwrites the stored table with entries.
	Save(ctx context.Context, entries []Entry) error
}

type node struct {
	player string
	score  int
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, player string, score int) *node {
	if n == nil {
		return &node{player: player, score: score, prio: rand.Uint64(), size: 1}
	}
	if less(score, player, n.score, n.player) {
		n.left = insert(n.left, player, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, player, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, player string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && player == n.player:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, player, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, player, score)
		}
	case less(score, player, n.score, n.player):
		n.left = deleteNode(n.left, player, score)
	default:
		n.right = deleteNode(n.right, player, score)
	}
	fix(n)
	return n
}

// collect appends up to limit entries in rank order. limit < 0 means all.
func collect(n *node, limit int, out *[]Entry) {
	if n == nil || (limit >= 0 && len(*out) >= limit) {
		return
	}
	collect(n.left, limit, out)
	if limit < 0 || len(*out) < limit {
		*out = append(*out, Entry{Player: n.player, Score: n.score})
	}
	collect(n.right, limit, out)
}

// TreapStore keeps the board ordered in memory. With a Persister every
// mutation is written through while the write lock is held.
type TreapStore struct {
	mu        sync.RWMutex
	root      *node
	byPlayer  map[string]int
	persister Persister
	backend   string
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byPlayer: make(map[string]int),
		backend:  BackendMemory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TreapStore) observe(op string, start time.Time) {
	metrics.RecordLeaderboardLatency(s.backend, op, float64(time.Since(start).Milliseconds()))
}

// Load replaces the in-memory board with the persisted table.
func (s *TreapStore) Load(ctx context.Context) error {
	defer s.observe("load", time.Now())
	if s.persister == nil {
		return nil
	}
	table, err := s.persister.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "load")
		return fmt.Errorf("load leaderboard: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = nil
	s.byPlayer = make(map[string]int, len(table))
	for player, score := range table {
		s.byPlayer[player] = score
		s.root = insert(s.root, player, score)
	}
	metrics.UpdateLeaderboardPlayers(len(s.byPlayer))
	return nil
}

// Update implements Store.Update in O(log n) expected time plus persistence.
func (s *TreapStore) Update(ctx context.Context, player string, delta int) (Entry, error) {
	defer s.observe("update", time.Now())
	player = model.NormalizePlayer(player)
	if player == "" {
		metrics.RecordErrorByComponent("repository", "invalid_player")
		return Entry{}, ErrInvalidPlayer
	}
	delta = clampDelta(delta)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.byPlayer[player]
	if existed {
		s.root = deleteNode(s.root, player, old)
	}
	total := old + delta
	s.byPlayer[player] = total
	s.root = insert(s.root, player, total)

	if s.persister != nil {
		all := make([]Entry, 0, len(s.byPlayer))
		collect(s.root, -1, &all)
		if err := s.persister.Save(ctx, all); err != nil {
			// roll back so memory never runs ahead of the persisted table
			s.root = deleteNode(s.root, player, total)
			if existed {
				s.byPlayer[player] = old
				s.root = insert(s.root, player, old)
			} else {
				delete(s.byPlayer, player)
			}
			metrics.RecordErrorByComponent("repository", "persist")
			return Entry{}, fmt.Errorf("persist leaderboard: %w", err)
		}
	}

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardPlayers(len(s.byPlayer))
	return Entry{Rank: s.rankLocked(total), Player: player, Score: total}, nil
}

// Display returns the full board.
func (s *TreapStore) Display(ctx context.Context) ([]Entry, error) {
	defer s.observe("display", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.byPlayer))
	collect(s.root, -1, &out)
	assignRanks(out)
	return out, nil
}

// TopN returns the top n entries.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	defer s.observe("top_n", time.Now())
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byPlayer)))
	collect(s.root, n, &out)
	assignRanks(out)
	return out, nil
}

// Rank returns the dense rank and score for player.
func (s *TreapStore) Rank(ctx context.Context, player string) (Entry, error) {
	defer s.observe("rank", time.Now())
	player = model.NormalizePlayer(player)

	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.byPlayer[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{Rank: s.rankLocked(score), Player: player, Score: score}, nil
}

// Count returns the number of players.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPlayer)
}

// Close is a no-op; the persister holds no open handles between writes.
func (s *TreapStore) Close() error { return nil }

// rankLocked counts distinct scores above score. Caller holds s.mu.
func (s *TreapStore) rankLocked(score int) int {
	above := make(map[int]struct{})
	for _, v := range s.byPlayer {
		if v > score {
			above[v] = struct{}{}
		}
	}
	return len(above) + 1
}
