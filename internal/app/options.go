package service

import (
	"github.com/okian/kitchen/internal/domain/scoring"
	"github.com/okian/kitchen/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDedupeSize bounds how many credited round ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard page sizes.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithExtractor selects the feedback score extractor.
func WithExtractor(e scoring.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBulk sizes the bulk recipe pipeline.
func WithBulk(workers, queueSize int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.bulkWorkers = workers
		}
		if queueSize > 0 {
			s.bulkQueueSize = queueSize
		}
	}
}
