// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and KITCHEN_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
)

// Leaderboard backends.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
	BackendMemory = "memory"
)

// Score extractor variants.
const (
	ExtractorStrict = "strict"
	ExtractorLoose  = "loose"
)

// DefaultFallbackMessage is shown when the AI collaborator gives nothing usable.
const DefaultFallbackMessage = "⚠️ AI response unavailable. Please try again later."

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GeminiAPIKey authenticates the generative model client.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// Model names the generative model used for every request.
	Model string `koanf:"model"`

	// Temperature and MaxOutputTokens tune generation; zero keeps the model default.
	Temperature     float64 `koanf:"temperature"`
	MaxOutputTokens int     `koanf:"max_output_tokens"`

	// FallbackMessage replaces empty or failed AI responses.
	FallbackMessage string `koanf:"fallback_message"`

	// LeaderboardBackend selects sqlite, csv or memory.
	LeaderboardBackend string `koanf:"leaderboard_backend"`

	// LeaderboardPath is the SQLite database or CSV file location.
	LeaderboardPath string `koanf:"leaderboard_path"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ScoreExtractor selects strict or loose feedback score parsing.
	ScoreExtractor string `koanf:"score_extractor"`

	// RoundDedupeSize bounds how many credited round ids are remembered.
	RoundDedupeSize int `koanf:"round_dedupe_size"`

	// BulkWorkers and BulkQueueSize size the bulk recipe pipeline.
	BulkWorkers   int `koanf:"bulk_workers"`
	BulkQueueSize int `koanf:"bulk_queue_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Model:               "gemini-1.5-pro",
		FallbackMessage:     DefaultFallbackMessage,
		LeaderboardBackend:  BackendSQLite,
		LeaderboardPath:     "leaderboard.db",
		MaxLeaderboardLimit: 100,
		ScoreExtractor:      ExtractorStrict,
		RoundDedupeSize:     50_000,
		BulkWorkers:         runtime.NumCPU(),
		BulkQueueSize:       1_000,
	}
}
