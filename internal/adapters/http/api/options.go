package api

import (
	"time"

	"github.com/okian/beachvis/pkg/logger"
)

type settings struct {
	environment string
	version     string
	now         func() time.Time
	logger      logger.Logger
}

// Option configures a Server.
type Option func(*settings)

// WithEnvironment sets the environment name reported by the health endpoint.
func WithEnvironment(env string) Option {
	return func(s *settings) {
		if env != "" {
			s.environment = env
		}
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *settings) {
		if version != "" {
			s.version = version
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
