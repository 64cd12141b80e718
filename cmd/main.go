package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/kitchen/internal/adapters/ai"
	"github.com/okian/kitchen/internal/adapters/http/api"
	"github.com/okian/kitchen/internal/adapters/http/swagger"
	"github.com/okian/kitchen/internal/adapters/repository"
	app "github.com/okian/kitchen/internal/app"
	"github.com/okian/kitchen/internal/config"
	"github.com/okian/kitchen/internal/domain/scoring"
	"github.com/okian/kitchen/pkg/logger"
	"github.com/okian/kitchen/pkg/metrics"
)

// HTTP server timeout constants. Writes allow for three sequential model calls.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 2 * time.Minute
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gen, err := ai.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.Model,
		ai.WithTemperature(float32(cfg.Temperature)),
		ai.WithMaxOutputTokens(int32(cfg.MaxOutputTokens)), //nolint:gosec // validated non-negative
	)
	if err != nil {
		loggerInstance.Error(ctx, "failed to create model client", logger.Error(err))
		os.Exit(1)
	}

	svc, err := newService(ctx, cfg, gen, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("model", gen.Model()),
			logger.String("leaderboard_backend", cfg.LeaderboardBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService opens the configured leaderboard and starts the challenge service on gen.
func newService(ctx context.Context, cfg *config.Config, gen ai.Generator, log logger.Logger) (*app.Service, error) {
	store, err := repository.Open(ctx, cfg.LeaderboardBackend, cfg.LeaderboardPath)
	if err != nil {
		return nil, err
	}

	collab := ai.NewCollaborator(gen,
		ai.WithFallbackMessage(cfg.FallbackMessage),
		ai.WithLogger(log.Named("ai")),
	)
	svc := app.New(collab, store,
		app.WithLogger(log),
		app.WithExtractor(scoring.New(cfg.ScoreExtractor)),
		app.WithDedupeSize(cfg.RoundDedupeSize),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithBulk(cfg.BulkWorkers, cfg.BulkQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}

// newMux registers the API and documentation routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
