package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/kitchen/internal/domain/content"
	"github.com/okian/kitchen/pkg/logger"
	"github.com/okian/kitchen/pkg/metrics"
)

// DefaultFallbackMessage is shown when the model returns nothing usable.
const DefaultFallbackMessage = "⚠️ Unable to generate response. Please try again."

// Collaborator wraps a Generator so callers always get displayable text.
type Collaborator struct {
	gen      Generator
	fallback string
	log      logger.Logger
}

// NewCollaborator wraps gen with fallback handling.
func NewCollaborator(gen Generator, opts ...CollaboratorOption) *Collaborator {
	c := &Collaborator{gen: gen, fallback: DefaultFallbackMessage}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fallback returns the configured fallback text.
func (c *Collaborator) Fallback() string { return c.fallback }

// Ask never fails. An empty response yields the fallback message; an error
// yields "⚠️ AI Error: <err>" followed by the fallback on the next line.
func (c *Collaborator) Ask(ctx context.Context, kind, prompt string, parts ...content.Part) string {
	text, err := c.Generate(ctx, kind, prompt, parts...)
	if err != nil {
		return c.FailureText(err)
	}
	return text
}

// FailureText is the text Ask shows for a Generate error.
func (c *Collaborator) FailureText(err error) string {
	if err == ErrEmptyResponse { //nolint:errorlint // returned unwrapped by Generate
		return c.fallback
	}
	return fmt.Sprintf("⚠️ AI Error: %v\n%s", err, c.fallback)
}

// Generate is Ask without the fallback substitution, for callers that must
// distinguish failures (the bulk job skips failed rows).
func (c *Collaborator) Generate(ctx context.Context, kind, prompt string, parts ...content.Part) (string, error) {
	start := time.Now()
	text, err := c.gen.Generate(ctx, prompt, parts...)
	ms := float64(time.Since(start).Milliseconds())

	switch {
	case err != nil:
		metrics.RecordAIRequest(kind, "error", ms)
		metrics.RecordAIFallback(kind, "error")
		metrics.RecordErrorByComponent("ai", kind)
		if c.log != nil {
			c.log.Error(ctx, "generation failed", logger.String("kind", kind), logger.Error(err))
		}
		return "", err
	case strings.TrimSpace(text) == "":
		metrics.RecordAIRequest(kind, "empty", ms)
		metrics.RecordAIFallback(kind, "empty")
		if c.log != nil {
			c.log.Warn(ctx, "empty generation", logger.String("kind", kind))
		}
		return "", ErrEmptyResponse
	default:
		metrics.RecordAIRequest(kind, "ok", ms)
		if c.log != nil {
			c.log.Debug(ctx, "generation complete", logger.String("kind", kind), logger.Float64("latency_ms", ms))
		}
		return text, nil
	}
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, parts ...content.Part) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, parts ...content.Part) (string, error) {
	return f(ctx, prompt, parts...)
}
