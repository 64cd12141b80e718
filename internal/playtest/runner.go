package playtest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/kitchen/pkg/logger"
)

var labels = []string{"A", "B", "C", "D"}

// ErrMismatch reports a leaderboard that disagrees with the credited scores.
var ErrMismatch = errors.New("leaderboard mismatch")

// Run plays every configured round and verifies the resulting standings.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("playtest")
	stats := &Stats{Expected: make(map[string]int), StartTime: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting play-test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
	)

	if err := c.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Unique names keep earlier runs from skewing expected totals.
	runID := uuid.NewString()[:8]
	players := make(chan string)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for range max(1, cfg.Workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for player := range players {
				for i := range cfg.Rounds {
					score, resubmitOK, err := playRound(ctx, c, player)
					mu.Lock()
					if err != nil {
						stats.RoundsFailed++
						mu.Unlock()
						log.Warn(ctx, "round failed", logger.String("player", player), logger.Int("round", i), logger.Error(err))
						continue
					}
					stats.RoundsPlayed++
					stats.Expected[player] += score
					if resubmitOK {
						stats.ResubmitsIgnored++
					}
					mu.Unlock()
					if cfg.Verbose {
						log.Info(ctx, "round scored", logger.String("player", player), logger.Int("round", i), logger.Int("score", score))
					}
				}
			}
		}()
	}
	for i := range cfg.Players {
		select {
		case players <- fmt.Sprintf("player-%s-%03d", runID, i):
		case <-ctx.Done():
		}
	}
	close(players)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	board, err := c.leaderboard(ctx)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := Verify(stats.Expected, board); err != nil {
		return stats, err
	}
	for player, want := range stats.Expected {
		e, err := c.rank(ctx, player)
		if err != nil {
			return stats, fmt.Errorf("rank %s: %w", player, err)
		}
		if e.Score != want {
			return stats, fmt.Errorf("%w: rank for %s has score %d, want %d", ErrMismatch, player, e.Score, want)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "play-test completed",
		logger.Int("roundsPlayed", stats.RoundsPlayed),
		logger.Int("roundsFailed", stats.RoundsFailed),
		logger.Int("resubmitsIgnored", stats.ResubmitsIgnored),
		logger.Int("leaderboardEntries", len(board)),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// playRound runs start, choose and submit, then submits again to check the
// second submission does not change the total.
func playRound(ctx context.Context, c *client, player string) (score int, resubmitIgnored bool, err error) {
	r, err := c.startRound(ctx, player)
	if err != nil {
		return 0, false, err
	}
	if _, err := c.choose(ctx, r.ID, labels[rand.IntN(len(labels))]); err != nil {
		return 0, false, err
	}
	scored, err := c.submit(ctx, r.ID)
	if err != nil {
		return 0, false, err
	}
	if scored.Score == nil || scored.Total == nil {
		return 0, false, fmt.Errorf("round %s: submit returned no score", r.ID)
	}

	again, err := c.submit(ctx, r.ID)
	if err != nil {
		return 0, false, err
	}
	if again.Total == nil || *again.Total != *scored.Total {
		return 0, false, fmt.Errorf("%w: resubmitting round %s changed the total", ErrMismatch, r.ID)
	}
	return *scored.Score, true, nil
}
