// Package scoring extracts a bounded round score from free-text AI feedback.
//
// The feedback prompt asks the model to finish with "Score: N", so the last
// qualifying number in document order is taken as authoritative. Earlier
// numbers ("reduced waste by 10%") are ignored in favor of the trailing one.
//
// Strict ranks an explicit marker above position: "Score: 3, plate 5 items"
// yields 3, not the later 5, and "Score: 7 ... waste down 15%" yields 7.
// Only text without a marker falls back to the last token in [0, 10].
// Loose ignores markers and clamps the last one- or two-digit token.
package scoring

import (
	"regexp"
	"strconv"

	"github.com/okian/kitchen/internal/domain/model"
)

var (
	integerToken = regexp.MustCompile(`\d+`)
	shortToken   = regexp.MustCompile(`\b\d{1,2}\b`)
	scoreMarker  = regexp.MustCompile(`(?i)\bscore\b\s*(?::|=|is|-)?\s*(\d+)`)
)

// Extractor turns feedback text into a score in [0, 10]. It never fails:
// text without a qualifying number scores 0.
type Extractor interface {
	Extract(text string) int
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(text string) int

// Extract implements Extractor.
func (f ExtractorFunc) Extract(text string) int { return f(text) }

// Strict prefers the last explicit "Score: N" marker whose N is in range and
// otherwise takes the last integer token in [0, 10].
type Strict struct{}

// Extract implements Extractor.
func (Strict) Extract(text string) int {
	if v, ok := lastInRange(submatches(scoreMarker, text)); ok {
		return v
	}
	if v, ok := lastInRange(integerToken.FindAllString(text, -1)); ok {
		return v
	}
	return 0
}

// Loose takes the last one- or two-digit token and clamps it to [0, 10].
type Loose struct{}

// Extract implements Extractor.
func (Loose) Extract(text string) int {
	tokens := shortToken.FindAllString(text, -1)
	if len(tokens) == 0 {
		return 0
	}
	v, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil {
		return 0
	}
	return model.ClampScore(v)
}

// New returns the extractor registered under name, falling back to Strict.
func New(name string) Extractor {
	if name == "loose" {
		return Loose{}
	}
	return Strict{}
}

func submatches(re *regexp.Regexp, text string) []string {
	groups := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g[1])
	}
	return out
}

// lastInRange scans tokens from the end and returns the first in [0, 10].
func lastInRange(tokens []string) (int, bool) {
	for i := len(tokens) - 1; i >= 0; i-- {
		v, err := strconv.Atoi(tokens[i])
		if err != nil {
			continue
		}
		if v >= model.MinScore && v <= model.MaxScore {
			return v, true
		}
	}
	return 0, false
}
