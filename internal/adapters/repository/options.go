package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithPersister makes every update durable through p before Update returns.
func WithPersister(p Persister) Option {
	return func(s *TreapStore) {
		if p != nil {
			s.persister = p
		}
	}
}

// WithBackendLabel sets the backend label used on latency metrics.
func WithBackendLabel(label string) Option {
	return func(s *TreapStore) {
		if label != "" {
			s.backend = label
		}
	}
}
