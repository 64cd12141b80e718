package ai

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrMissingAPIKey = errors.New("gemini API key is required")
	ErrEmptyResponse = errors.New("empty model response")
)
