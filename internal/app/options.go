package service

import (
	"time"

	"github.com/okian/beachvis/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTTL overrides the cache TTL of one resource kind.
func WithTTL(resource string, ttl time.Duration) Option {
	return func(s *Service) {
		if _, ok := s.ttls[resource]; ok && ttl > 0 {
			s.ttls[resource] = ttl
		}
	}
}

// WithDefaultYear sets the listing year used for codes without a trailing year.
func WithDefaultYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.defaultYear = year
		}
	}
}

// WithClock replaces time.Now for the service and its caches, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
