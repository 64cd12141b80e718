// Package session models one play-through of the restaurant challenge.
//
// A round moves NotStarted -> ScenarioGenerated -> ChoiceMade -> Scored.
// Scored is terminal; a new round is a new Session.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/okian/kitchen/internal/domain/model"
	"github.com/okian/kitchen/internal/domain/types"
)

// State of a round.
type State int

// Round states in order.
const (
	NotStarted State = iota
	ScenarioGenerated
	ChoiceMade
	Scored
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case ScenarioGenerated:
		return "scenario_generated"
	case ChoiceMade:
		return "choice_made"
	case Scored:
		return "scored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.RWMutex
	// creditMu serializes Credit without blocking readers during the store call.
	creditMu sync.Mutex

	id        string
	player    string
	state     State
	scenario  string
	hint      string
	options   string
	choice    model.Choice
	feedback  model.ScoredFeedback
	total     *int
	credited  bool
	startedAt time.Time
}

// New creates a round for player in the NotStarted state.
func New(id, player string) (*Session, error) {
	player = model.NormalizePlayer(player)
	if player == "" {
		return nil, ErrMissingPlayer
	}
	return &Session{id: id, player: player, startedAt: time.Now()}, nil
}

// ID returns the round identifier.
func (s *Session) ID() string { return s.id }

// Player returns the trimmed player name.
func (s *Session) Player() string { return s.player }

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Scenario returns the scenario text, empty before generation.
func (s *Session) Scenario() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// Choice returns the latest selected label.
func (s *Session) Choice() model.Choice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.choice
}

// Feedback returns the scored feedback, zero before Scored.
func (s *Session) Feedback() model.ScoredFeedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedback
}

// SetScenario stores the generated round content.
func (s *Session) SetScenario(scenario, hint, options string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != NotStarted {
		return s.transitionErr("set scenario")
	}
	s.scenario, s.hint, s.options = scenario, hint, options
	s.state = ScenarioGenerated
	return nil
}

// Choose records the player's label. Re-choosing before submission is allowed.
func (s *Session) Choose(label string) (model.Choice, error) {
	c, err := model.ParseChoice(label)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != ScenarioGenerated && s.state != ChoiceMade {
		return "", s.transitionErr("choose")
	}
	s.choice = c
	s.state = ChoiceMade
	return c, nil
}

// Score stores the evaluation and closes the round.
func (s *Session) Score(feedback string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != ChoiceMade {
		return s.transitionErr("score")
	}
	s.feedback = model.ScoredFeedback{Text: feedback, Score: model.ClampScore(score)}
	s.state = Scored
	return nil
}

// Credit runs apply at most once successfully for a scored round. apply gets
// the round score and returns the player's new total. It reports false
// without calling apply when the round was already credited; a failed apply
// leaves the round uncredited so a later call retries.
func (s *Session) Credit(apply func(score int) (int, error)) (bool, error) {
	s.creditMu.Lock()
	defer s.creditMu.Unlock()

	s.mu.RLock()
	state, credited, score := s.state, s.credited, s.feedback.Score
	s.mu.RUnlock()
	if state != Scored {
		return false, fmt.Errorf("%w: cannot credit in state %s", ErrInvalidTransition, state)
	}
	if credited {
		return false, nil
	}

	total, err := apply(score)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	s.credited = true
	s.total = &total
	s.mu.Unlock()
	return true, nil
}

// Credited reports whether the round has been added to the leaderboard.
func (s *Session) Credited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credited
}

// View returns the presentation form of the round.
func (s *Session) View() types.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := types.Round{
		ID:        s.id,
		Player:    s.player,
		State:     s.state.String(),
		Scenario:  s.scenario,
		Hint:      s.hint,
		Options:   s.options,
		Choice:    string(s.choice),
		StartedAt: s.startedAt,
	}
	if s.state == Scored {
		score := s.feedback.Score
		v.Feedback = s.feedback.Text
		v.Score = &score
	}
	if s.total != nil {
		total := *s.total
		v.Total = &total
	}
	return v
}

// must hold s.mu
func (s *Session) transitionErr(op string) error {
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidTransition, op, s.state)
}
