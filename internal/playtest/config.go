// Package playtest drives challenge rounds against a running service and
// checks that the leaderboard reflects every credited score.
package playtest

import "time"

// Config holds configuration for a play-test run.
type Config struct {
	BaseURL string        // Base URL of the service
	Players int           // Number of synthetic players
	Rounds  int           // Rounds each player plays, sequentially
	Workers int           // Players played concurrently
	Timeout time.Duration // HTTP request timeout; model calls make rounds slow
	Verbose bool          // Log every round
}

// Round mirrors the round view returned by the service.
type Round struct {
	ID       string `json:"id"`
	Player   string `json:"player"`
	State    string `json:"state"`
	Options  string `json:"options"`
	Choice   string `json:"choice"`
	Feedback string `json:"feedback"`
	Score    *int   `json:"score"`
	Total    *int   `json:"total"`
}

// Entry mirrors a leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Stats holds run statistics.
type Stats struct {
	RoundsPlayed     int
	RoundsFailed     int
	ResubmitsIgnored int
	Expected         map[string]int // player -> sum of scores returned by submit
	StartTime        time.Time
	Duration         time.Duration
}
