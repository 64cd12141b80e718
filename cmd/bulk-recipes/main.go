package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/kitchen/internal/adapters/ai"
	"github.com/okian/kitchen/internal/adapters/repository"
	app "github.com/okian/kitchen/internal/app"
	"github.com/okian/kitchen/internal/config"
	"github.com/okian/kitchen/pkg/logger"
)

const defaultRecipes = 25000

func main() {
	var (
		count  = flag.Int("n", defaultRecipes, "Number of recipes to generate")
		output = flag.String("output", "recipes.csv", "CSV file to write")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, *count, *output, log); err != nil {
		log.Error(ctx, "bulk generation failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, n int, path string, log logger.Logger) error {
	gen, err := ai.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.Model,
		ai.WithTemperature(float32(cfg.Temperature)),
		ai.WithMaxOutputTokens(int32(cfg.MaxOutputTokens)), //nolint:gosec // validated non-negative
	)
	if err != nil {
		return err
	}
	// Bulk generation never touches the leaderboard.
	store, err := repository.Open(ctx, repository.BackendMemory, "")
	if err != nil {
		return err
	}
	svc := app.New(ai.NewCollaborator(gen, ai.WithLogger(log.Named("ai"))), store,
		app.WithLogger(log),
		app.WithBulk(cfg.BulkWorkers, cfg.BulkQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	report, genErr := svc.GenerateBulk(ctx, n, w)
	if err := w.Flush(); err != nil && genErr == nil {
		genErr = err
	}
	if err := f.Close(); err != nil && genErr == nil {
		genErr = err
	}
	if genErr != nil {
		return genErr
	}

	log.Info(ctx, "recipes written",
		logger.String("output", path),
		logger.Int("requested", report.Requested),
		logger.Int("written", report.Written),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
	)
	return nil
}
