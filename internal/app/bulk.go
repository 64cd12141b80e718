package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/kitchen/internal/adapters/mq/queue"
	"github.com/okian/kitchen/internal/adapters/mq/worker"
	"github.com/okian/kitchen/internal/domain/model"
	"github.com/okian/kitchen/internal/domain/prompt"
	"github.com/okian/kitchen/pkg/logger"
	"github.com/okian/kitchen/pkg/metrics"
)

// BulkHeader is the first row of a bulk recipe file.
var BulkHeader = []string{"Recipe Name", "Ingredients", "Instructions", "Cooking Time", "Serving Size"} //nolint:gochecknoglobals // fixed file header

// bulkUnknown fills the serving size column, which the model output does not carry reliably.
const bulkUnknown = "Unknown"

// BulkReport summarizes a bulk run.
type BulkReport struct {
	Requested int `json:"requested"`
	Written   int `json:"written"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// GenerateBulk asks for n placeholder recipes ("Recipe 1" ... "Recipe n") through
// the worker pool and writes one CSV row per response with at least four lines.
// Rows keep request order.
func (s *Service) GenerateBulk(ctx context.Context, n int, w io.Writer) (BulkReport, error) {
	report := BulkReport{Requested: n}
	if n < 1 {
		return report, fmt.Errorf("bulk count must be positive: %d", n)
	}
	log := s.bulkLogger()

	results := make([]string, n)
	var (
		mu     sync.Mutex
		failed int
	)
	handler := worker.HandlerFunc(func(ctx context.Context, j worker.Job) error {
		text, err := s.collab.Generate(ctx, string(prompt.KindRecipe), prompt.Recipe(j.Input))
		if err != nil {
			mu.Lock()
			failed++
			mu.Unlock()
			return fmt.Errorf("recipe %d: %w", j.Index+1, err)
		}
		results[j.Index] = text
		return nil
	})

	q := queue.NewInMemoryQueue(queue.WithCapacity(s.bulkQueueSize))
	pool := worker.NewPool(s.bulkWorkers, q, handler)
	pool.Start(ctx)
	log.Info(ctx, "bulk generation started", logger.Int("recipes", n), logger.Int("workers", pool.Size()))

	for i := 0; i < n; i++ {
		job := model.RecipeJob{ID: uuid.NewString(), Index: i, Input: fmt.Sprintf("Recipe %d", i+1)}
		if err := q.Put(ctx, job); err != nil {
			_ = pool.Shutdown(context.Background())
			return report, fmt.Errorf("enqueue recipe %d: %w", i+1, err)
		}
	}
	_ = q.Close()
	if err := pool.Wait(ctx); err != nil {
		return report, fmt.Errorf("waiting for workers: %w", err)
	}
	report.Failed = failed

	cw := csv.NewWriter(w)
	if err := cw.Write(BulkHeader); err != nil {
		return report, err
	}
	for _, text := range results {
		row, ok := RecipeRow(text)
		if !ok {
			if text != "" {
				report.Skipped++
				metrics.RecordBulkRow(false)
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return report, err
		}
		report.Written++
		metrics.RecordBulkRow(true)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return report, err
	}

	log.Info(ctx, "bulk generation finished",
		logger.Int("written", report.Written),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
	)
	return report, nil
}

// RecipeRow maps a recipe response to a CSV row: its first four lines plus
// "Unknown". Responses with fewer than four lines yield no row.
func RecipeRow(text string) ([]string, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 4 {
		return nil, false
	}
	row := make([]string, 0, len(BulkHeader))
	for _, l := range lines[:4] {
		row = append(row, strings.TrimSpace(l))
	}
	return append(row, bulkUnknown), true
}

func (s *Service) bulkLogger() logger.Logger {
	if s.logger != nil {
		return s.logger.Named("bulk")
	}
	return logger.Named("bulk")
}
