// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Score bounds for a single round.
const (
	MinScore = 0
	MaxScore = 10
)

// ErrInvalidChoice is returned for labels outside the fixed option set.
var ErrInvalidChoice = errors.New("invalid choice")

// Choice is one of the fixed multiple-choice labels.
type Choice string

// The fixed label set offered to a player every round.
const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the labels in presentation order.
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD} //nolint:gochecknoglobals // fixed label set

// ParseChoice normalizes s and checks it against the label set.
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Choices {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// ScoredFeedback is the evaluation text of a round and the score extracted from it.
type ScoredFeedback struct {
	Text  string
	Score int
}

// ClampScore bounds s to [MinScore, MaxScore].
func ClampScore(s int) int {
	return max(MinScore, min(MaxScore, s))
}

// NormalizePlayer trims surrounding whitespace from a display name.
func NormalizePlayer(name string) string {
	return strings.TrimSpace(name)
}
