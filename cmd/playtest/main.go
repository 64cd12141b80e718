package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/kitchen/internal/playtest"
	"github.com/okian/kitchen/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers     = 5
	defaultRounds      = 3
	defaultWorkers     = 5
	defaultTimeout     = 2 * time.Minute
	defaultTestTimeout = 30 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players = flag.Int("players", defaultPlayers, "Number of synthetic players")
		rounds  = flag.Int("rounds", defaultRounds, "Rounds played by each player")
		workers = flag.Int("workers", defaultWorkers, "Players played concurrently")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every round")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	_, err := playtest.Run(ctx, &playtest.Config{
		BaseURL: *baseURL,
		Players: *players,
		Rounds:  *rounds,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "play-test failed", logger.Error(err))
		os.Exit(1)
	}
}
