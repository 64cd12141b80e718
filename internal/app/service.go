// Package service runs the restaurant challenge: it drives rounds through the
// AI collaborator, scores them and credits the leaderboard.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/kitchen/internal/adapters/ai"
	"github.com/okian/kitchen/internal/adapters/repository"
	"github.com/okian/kitchen/internal/domain/content"
	"github.com/okian/kitchen/internal/domain/dedupe"
	"github.com/okian/kitchen/internal/domain/prompt"
	"github.com/okian/kitchen/internal/domain/scoring"
	"github.com/okian/kitchen/internal/domain/session"
	"github.com/okian/kitchen/internal/domain/types"
	"github.com/okian/kitchen/pkg/logger"
	"github.com/okian/kitchen/pkg/metrics"
)

// Service implements the API dependencies for the challenge.
type Service struct {
	mu sync.RWMutex

	// Core components
	collab      *ai.Collaborator
	leaderboard repository.Store
	extractor   scoring.Extractor
	deduper     dedupe.Deduper

	// Round registry: round id -> session, player -> latest round id.
	// Only a player's latest round is kept.
	rounds map[string]*session.Session
	latest map[string]string

	// Configuration
	dedupeSize    int
	maxLimit      int
	bulkWorkers   int
	bulkQueueSize int

	started bool
	logger  logger.Logger
}

// New constructs a Service around an AI collaborator and a loaded leaderboard store.
func New(collab *ai.Collaborator, store repository.Store, opts ...Option) *Service {
	s := &Service{
		collab:        collab,
		leaderboard:   store,
		extractor:     scoring.Strict{},
		rounds:        make(map[string]*session.Session),
		latest:        make(map[string]string),
		dedupeSize:    50_000,
		maxLimit:      100,
		bulkWorkers:   runtime.NumCPU(),
		bulkQueueSize: 1_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares runtime components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.started = true

	metrics.UpdateLeaderboardPlayers(s.leaderboard.Count(ctx))
	s.logger.Info(ctx, "challenge service started",
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxLeaderboardLimit", s.maxLimit),
		logger.Int("players", s.leaderboard.Count(ctx)),
	)
	return nil
}

// Stop closes the leaderboard store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.leaderboard.Close(); err != nil {
		s.logger.Error(context.Background(), "closing leaderboard", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "challenge service stopped")
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// StartRound opens a new round for player and generates its scenario, hint and options.
// Optional sources are attached to the scenario request. Any unfinished round the
// player still holds is discarded.
func (s *Service) StartRound(ctx context.Context, player string, sources ...content.Source) (types.Round, error) {
	if !s.isStarted() {
		return types.Round{}, ErrNotStarted
	}
	sess, err := session.New(uuid.NewString(), player)
	if err != nil {
		return types.Round{}, err
	}

	parts := content.Collect(ctx, s.logger, sources...)
	scenario := s.collab.Ask(ctx, string(prompt.KindScenario), prompt.Scenario(), parts...)
	hint := s.collab.Ask(ctx, string(prompt.KindHint), prompt.Hint(scenario))
	options := s.collab.Ask(ctx, string(prompt.KindOptions), prompt.Options(scenario))
	if err := sess.SetScenario(scenario, hint, options); err != nil {
		return types.Round{}, err
	}

	s.mu.Lock()
	if prevID, ok := s.latest[sess.Player()]; ok {
		if prev := s.rounds[prevID]; prev != nil && prev.State() != session.Scored {
			metrics.RecordRoundAbandoned()
			s.logger.Debug(ctx, "discarded unfinished round",
				logger.String("player", sess.Player()), logger.String("round", prevID))
		}
		delete(s.rounds, prevID)
	}
	s.rounds[sess.ID()] = sess
	s.latest[sess.Player()] = sess.ID()
	metrics.UpdateActiveRounds(len(s.rounds))
	s.mu.Unlock()

	metrics.RecordRoundStarted()
	s.logger.Info(ctx, "round started", logger.String("round", sess.ID()), logger.String("player", sess.Player()))
	return sess.View(), nil
}

func (s *Service) session(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.rounds[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	return sess, nil
}

// Round returns the current view of a round.
func (s *Service) Round(ctx context.Context, id string) (types.Round, error) {
	sess, err := s.session(id)
	if err != nil {
		return types.Round{}, err
	}
	return sess.View(), nil
}

// Choose records the player's option label. It may be changed until Submit.
func (s *Service) Choose(ctx context.Context, id, label string) (types.Round, error) {
	sess, err := s.session(id)
	if err != nil {
		return types.Round{}, err
	}
	if _, err := sess.Choose(label); err != nil {
		return types.Round{}, err
	}
	return sess.View(), nil
}

// Submit evaluates the chosen option, scores the round and credits the
// leaderboard. Submitting a scored round retries an uncredited result and is
// otherwise a no-op.
func (s *Service) Submit(ctx context.Context, id string) (types.Round, error) {
	if !s.isStarted() {
		return types.Round{}, ErrNotStarted
	}
	sess, err := s.session(id)
	if err != nil {
		return types.Round{}, err
	}

	if sess.State() != session.Scored {
		if sess.State() != session.ChoiceMade {
			return types.Round{}, fmt.Errorf("%w: cannot submit in state %s", ErrInvalidTransition, sess.State())
		}
		feedback, err := s.collab.Generate(ctx, string(prompt.KindFeedback), prompt.Feedback(sess.Scenario(), string(sess.Choice())))
		score := 0
		if err != nil {
			// Digits in an error message are not an evaluation.
			feedback = s.collab.FailureText(err)
		} else {
			score = s.extractor.Extract(feedback)
		}
		if err := sess.Score(feedback, score); err != nil {
			return types.Round{}, err
		}
	}

	if err := s.credit(ctx, sess); err != nil {
		return types.Round{}, err
	}
	return sess.View(), nil
}

// credit adds a scored round to the leaderboard at most once. The session's
// credited flag is authoritative; the dedupe set only catches repeated IDs.
func (s *Service) credit(ctx context.Context, sess *session.Session) error {
	var score int
	credited, err := sess.Credit(func(sc int) (int, error) {
		score = sc
		if s.deduper.SeenAndRecord(ctx, sess.ID()) {
			return 0, errAlreadyCredited
		}
		entry, err := s.leaderboard.Update(ctx, sess.Player(), sc)
		if err != nil {
			s.deduper.Unrecord(ctx, sess.ID())
			return 0, err
		}
		return entry.Score, nil
	})
	switch {
	case errors.Is(err, errAlreadyCredited) || (err == nil && !credited):
		metrics.RecordRoundDuplicate()
		return nil
	case err != nil:
		s.logger.Error(ctx, "leaderboard update failed",
			logger.String("round", sess.ID()), logger.String("player", sess.Player()), logger.Error(err))
		return err
	}

	total := sess.View().Total
	metrics.RecordRoundScored(score)
	s.logger.Info(ctx, "round scored",
		logger.String("round", sess.ID()),
		logger.String("player", sess.Player()),
		logger.Int("score", score),
		logger.Int("total", *total),
	)
	return nil
}

// Leaderboard returns up to limit entries. Zero means the configured maximum;
// larger values are capped to it.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.TopN(ctx, limit)
}

// Display returns the whole leaderboard.
func (s *Service) Display(ctx context.Context) ([]types.Entry, error) {
	entries, err := s.leaderboard.Display(ctx)
	if err != nil {
		return nil, err
	}
	return toAPI(entries), nil
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.leaderboard.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	return toAPI(entries), nil
}

// Rank returns the rank and score for a player.
func (s *Service) Rank(ctx context.Context, player string) (types.Entry, error) {
	entry, err := s.leaderboard.Rank(ctx, player)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{Rank: entry.Rank, Player: entry.Player, Score: entry.Score}, nil
}

// Generate produces a recipe from free text plus optional attachments.
func (s *Service) Generate(ctx context.Context, text string, sources ...content.Source) (string, error) {
	parts := content.Collect(ctx, s.logger, sources...)
	if strings.TrimSpace(text) == "" && len(parts) == 0 {
		return "", ErrMissingInput
	}
	return s.collab.Ask(ctx, string(prompt.KindRecipe), prompt.Recipe(text), parts...), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             s.started,
		"activeRounds":        len(s.rounds),
		"dedupeSize":          s.dedupeSize,
		"maxLeaderboardLimit": s.maxLimit,
		"bulkWorkers":         s.bulkWorkers,
		"bulkQueueSize":       s.bulkQueueSize,
	}
	if s.started {
		players := s.leaderboard.Count(context.Background())
		stats["players"] = players
		stats["creditedRounds"] = s.deduper.Size()
		metrics.UpdateLeaderboardPlayers(players)
	}
	return stats
}

func toAPI(entries []repository.Entry) []types.Entry {
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{Rank: e.Rank, Player: e.Player, Score: e.Score}
	}
	return out
}
