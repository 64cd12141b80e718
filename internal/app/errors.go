package service

import (
	"errors"

	"github.com/okian/kitchen/internal/adapters/repository"
	"github.com/okian/kitchen/internal/domain/model"
	"github.com/okian/kitchen/internal/domain/session"
)

// Sentinel errors returned by Service. Store and session sentinels are
// re-exported so callers need only this package.
var (
	ErrRoundNotFound = errors.New("round not found")
	ErrMissingInput  = errors.New("at least one input (text or image) is required")
	ErrNotStarted    = errors.New("service not started")

	ErrMissingPlayer     = session.ErrMissingPlayer
	ErrInvalidTransition = session.ErrInvalidTransition
	ErrInvalidChoice     = model.ErrInvalidChoice
	ErrNotFound          = repository.ErrNotFound
	ErrInvalidLimit      = repository.ErrInvalidLimit
)

// errAlreadyCredited marks a round ID the dedupe set has already seen.
var errAlreadyCredited = errors.New("round already credited")
