package cache

import "time"

type settings struct {
	now func() time.Time
}

// Option applies a configuration option to a TTLStore.
type Option func(*settings)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
