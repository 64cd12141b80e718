package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound       = errors.New("player not found")
	ErrInvalidLimit   = errors.New("invalid leaderboard limit")
	ErrInvalidPlayer  = errors.New("invalid player name")
	ErrUnknownBackend = errors.New("unknown leaderboard backend")
	ErrCorruptTable   = errors.New("corrupt leaderboard table")
)
