package session

import "errors"

// Sentinel errors returned by Session transitions.
var (
	ErrMissingPlayer     = errors.New("player name is required")
	ErrInvalidTransition = errors.New("invalid round transition")
)
