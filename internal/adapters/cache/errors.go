package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrInvalidTTL = errors.New("cache ttl must be positive")
)
