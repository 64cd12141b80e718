package ai

import (
	"google.golang.org/genai"

	"github.com/okian/kitchen/pkg/logger"
)

// GeneratorOption configures a GenAIGenerator.
type GeneratorOption func(*GenAIGenerator)

// WithTemperature sets the sampling temperature. Zero or less keeps the model default.
func WithTemperature(t float32) GeneratorOption {
	return func(g *GenAIGenerator) {
		if t <= 0 {
			return
		}
		if g.config == nil {
			g.config = &genai.GenerateContentConfig{}
		}
		g.config.Temperature = genai.Ptr(t)
	}
}

// WithMaxOutputTokens caps the response length. Zero or less keeps the model default.
func WithMaxOutputTokens(n int32) GeneratorOption {
	return func(g *GenAIGenerator) {
		if n <= 0 {
			return
		}
		if g.config == nil {
			g.config = &genai.GenerateContentConfig{}
		}
		g.config.MaxOutputTokens = n
	}
}

// CollaboratorOption configures a Collaborator.
type CollaboratorOption func(*Collaborator)

// WithFallbackMessage replaces the default fallback text.
func WithFallbackMessage(msg string) CollaboratorOption {
	return func(c *Collaborator) {
		if msg != "" {
			c.fallback = msg
		}
	}
}

// WithLogger sets the logger used for failures.
func WithLogger(l logger.Logger) CollaboratorOption {
	return func(c *Collaborator) {
		if l != nil {
			c.log = l
		}
	}
}
