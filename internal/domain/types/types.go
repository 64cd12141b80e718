// Package types contains the JSON shapes shared by the service and its HTTP API.
package types

import "time"

// Entry represents a leaderboard entry.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Round is the presentation view of one play-through.
type Round struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	State     string    `json:"state"`
	Scenario  string    `json:"scenario,omitempty"`
	Hint      string    `json:"hint,omitempty"`
	Options   string    `json:"options,omitempty"`
	Choice    string    `json:"choice,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Total     *int      `json:"total,omitempty"`
	StartedAt time.Time `json:"started_at"`
}
