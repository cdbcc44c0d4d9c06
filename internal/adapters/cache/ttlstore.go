package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/beachvis/pkg/metrics"
)

// TTLStore is a keyed in-memory Store whose entries are fresh for a fixed
// TTL. Stale entries are never served and are swept on write, at most once
// per TTL. There is no background goroutine.
type TTLStore[T any] struct {
	resource string
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	entries   map[string]Entry[T]
	lastSweep time.Time

	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

var _ Store[int] = (*TTLStore[int])(nil)

// New returns an empty store for resource with the given TTL.
// It panics with ErrInvalidTTL when ttl is not positive.
func New[T any](resource string, ttl time.Duration, opts ...Option) *TTLStore[T] {
	if ttl <= 0 {
		panic(ErrInvalidTTL)
	}
	cfg := settings{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &TTLStore[T]{
		resource: resource,
		ttl:      ttl,
		now:      cfg.now,
		entries:  make(map[string]Entry[T]),
	}
	s.lastSweep = s.now()
	return s
}

// TTL implements Store.
func (s *TTLStore[T]) TTL() time.Duration { return s.ttl }

// Resource names the cached resource kind.
func (s *TTLStore[T]) Resource() string { return s.resource }

func (s *TTLStore[T]) fresh(e Entry[T], now time.Time) bool {
	return now.Sub(e.Timestamp) < s.ttl
}

// Get implements Store.
func (s *TTLStore[T]) Get(key string) (Entry[T], bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.fresh(e, s.now()) {
		return Entry[T]{}, false
	}
	return e, true
}

// Set implements Store. Same-key writes are last-write-wins.
func (s *TTLStore[T]) Set(key string, data T) Entry[T] {
	now := s.now()
	e := Entry[T]{Data: data, Timestamp: now}

	s.mu.Lock()
	s.entries[key] = e
	swept := s.sweepLocked(now)
	n := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheEntries(s.resource, n)
	metrics.RecordCacheEvictions(s.resource, swept)
	return e
}

// sweepLocked deletes expired entries when a TTL has passed since the last
// sweep. Callers must hold mu for writing.
func (s *TTLStore[T]) sweepLocked(now time.Time) int {
	if now.Sub(s.lastSweep) < s.ttl {
		return 0
	}
	s.lastSweep = now
	swept := 0
	for k, e := range s.entries {
		if !s.fresh(e, now) {
			delete(s.entries, k)
			swept++
		}
	}
	s.evictions.Add(uint64(swept))
	return swept
}

// Delete implements Store.
func (s *TTLStore[T]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	n := len(s.entries)
	s.mu.Unlock()
	metrics.UpdateCacheEntries(s.resource, n)
}

// Len returns the number of entries held, fresh or not.
func (s *TTLStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Load implements Store.
//
// The shared fetch runs detached from the cancellation of whichever caller
// started it; each caller still stops waiting when its own ctx is done.
func (s *TTLStore[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (Entry[T], Status, error) {
	if e, ok := s.Get(key); ok {
		s.hits.Add(1)
		metrics.RecordCacheHit(s.resource)
		return e, Hit, nil
	}
	s.misses.Add(1)
	metrics.RecordCacheMiss(s.resource)
	if err := ctx.Err(); err != nil {
		return Entry[T]{}, Miss, err
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if e, ok := s.Get(key); ok {
			return e, nil
		}
		data, cacheable, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if !cacheable {
			return Entry[T]{Data: data, Timestamp: s.now()}, nil
		}
		return s.Set(key, data), nil
	})

	select {
	case <-ctx.Done():
		return Entry[T]{}, Miss, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Entry[T]{}, Miss, r.Err
		}
		return r.Val.(Entry[T]), Miss, nil
	}
}

// Stats implements Store.
func (s *TTLStore[T]) Stats() Stats {
	hits, misses := s.hits.Load(), s.misses.Load()
	st := Stats{
		Resource:   s.resource,
		TTLSeconds: s.ttl.Seconds(),
		Entries:    s.Len(),
		Hits:       hits,
		Misses:     misses,
		Evictions:  s.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		st.HitRatio = float64(hits) / float64(total)
	}
	return st
}
