// Package ai talks to the hosted generative model.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/okian/kitchen/internal/domain/content"
)

// Generator turns a prompt plus optional attached parts into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string, parts ...content.Part) (string, error)
}

// GenAIGenerator calls the Gemini API through google.golang.org/genai.
type GenAIGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenAIGenerator builds a client for apiKey. The client is created once and shared.
func NewGenAIGenerator(ctx context.Context, apiKey, model string, opts ...GeneratorOption) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = "gemini-1.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &GenAIGenerator{client: client, model: model}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model returns the configured model name.
func (g *GenAIGenerator) Model() string { return g.model }

// Generate sends the prompt first, then the attached parts, as one user turn.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string, parts ...content.Part) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{BuildContent(prompt, parts...)}, g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// BuildContent converts a prompt and parts into a single user Content.
func BuildContent(prompt string, parts ...content.Part) *genai.Content {
	out := make([]*genai.Part, 0, len(parts)+1)
	out = append(out, genai.NewPartFromText(prompt))
	for _, p := range parts {
		switch p.Kind {
		case content.PartImage:
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIME))
		default:
			if p.Text != "" {
				out = append(out, genai.NewPartFromText(p.Text))
			}
		}
	}
	return genai.NewContentFromParts(out, genai.RoleUser)
}
