// Package cache holds the per-resource in-memory TTL caches.
package cache

import (
	"context"
	"time"
)

// Status marks whether a value was served from memory.
type Status string

// Cache statuses, sent to clients in the X-Cache header.
const (
	Hit  Status = "HIT"
	Miss Status = "MISS"
)

// Entry is one cached value and the time it was stored.
type Entry[T any] struct {
	Data      T
	Timestamp time.Time
}

// FetchFunc produces a value on a miss. A value with cacheable set to false
// is returned to the caller but not stored; errors are never stored.
type FetchFunc[T any] func(ctx context.Context) (data T, cacheable bool, err error)

// Store provides read/write access to one resource cache.
type Store[T any] interface {
	// Get returns the entry for key only while it is fresh.
	Get(key string) (Entry[T], bool)
	// Set stores data under key, stamped with the current time.
	Set(key string, data T) Entry[T]
	// Load returns the fresh entry for key, or runs fetch and stores its
	// result. Concurrent misses for one key share a single fetch.
	Load(ctx context.Context, key string, fetch FetchFunc[T]) (Entry[T], Status, error)
	// Delete drops key.
	Delete(key string)
	// TTL is the freshness window of the store.
	TTL() time.Duration
	// Stats reports counters for observability.
	Stats() Stats
}

// Stats is a point-in-time view of a store.
type Stats struct {
	Resource   string  `json:"resource"`
	TTLSeconds float64 `json:"ttlSeconds"`
	Entries    int     `json:"entries"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	Evictions  uint64  `json:"evictions"`
	HitRatio   float64 `json:"hitRatio"`
}
