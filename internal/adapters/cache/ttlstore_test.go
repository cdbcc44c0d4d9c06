package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func counting(calls *int32, value []string) FetchFunc[[]string] {
	return func(context.Context) ([]string, bool, error) {
		atomic.AddInt32(calls, 1)
		return value, true, nil
	}
}

func TestTTLStoreLoad(t *testing.T) {
	Convey("Given a schedule cache with a two minute TTL", t, func() {
		clock := &fakeClock{now: time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)}
		store := New[[]string]("schedule", 2*time.Minute, WithClock(clock.Now))
		ctx := context.Background()
		var calls int32
		matches := []string{"M001", "M002", "M003"}

		Convey("When the key is loaded for the first time", func() {
			first, status, err := store.Load(ctx, "ABCD2025", counting(&calls, matches))

			So(err, ShouldBeNil)
			So(status, ShouldEqual, Miss)
			So(first.Data, ShouldResemble, matches)
			So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))

			Convey("Then a repeat within the TTL is a hit with the same entry", func() {
				clock.Advance(119 * time.Second)
				second, status, err := store.Load(ctx, "ABCD2025", counting(&calls, []string{"changed"}))

				So(err, ShouldBeNil)
				So(status, ShouldEqual, Hit)
				So(second.Data, ShouldResemble, matches)
				So(second.Timestamp, ShouldEqual, first.Timestamp)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))
			})

			Convey("Then a request after expiry fetches again", func() {
				clock.Advance(2 * time.Minute)
				third, status, err := store.Load(ctx, "ABCD2025", counting(&calls, []string{"M004"}))

				So(err, ShouldBeNil)
				So(status, ShouldEqual, Miss)
				So(third.Data, ShouldResemble, []string{"M004"})
				So(third.Timestamp, ShouldHappenAfter, first.Timestamp)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(2))
			})

			Convey("Then Get hides the entry once it is stale", func() {
				_, ok := store.Get("ABCD2025")
				So(ok, ShouldBeTrue)

				clock.Advance(2 * time.Minute)
				_, ok = store.Get("ABCD2025")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the fetch fails", func() {
			boom := errors.New("upstream down")
			_, status, err := store.Load(ctx, "ABCD2025", func(context.Context) ([]string, bool, error) {
				atomic.AddInt32(&calls, 1)
				return nil, false, boom
			})

			Convey("Then the failure is returned and not cached", func() {
				So(err, ShouldEqual, boom)
				So(status, ShouldEqual, Miss)
				So(store.Len(), ShouldEqual, 0)

				_, status, err = store.Load(ctx, "ABCD2025", counting(&calls, matches))
				So(err, ShouldBeNil)
				So(status, ShouldEqual, Miss)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(2))
			})
		})

		Convey("When the fetch returns a degraded value", func() {
			e, _, err := store.Load(ctx, "ABCD2025", func(context.Context) ([]string, bool, error) {
				return []string{}, false, nil
			})

			Convey("Then it is served but not stored", func() {
				So(err, ShouldBeNil)
				So(e.Data, ShouldBeEmpty)
				_, ok := store.Get("ABCD2025")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When stats are read", func() {
			_, _, _ = store.Load(ctx, "A", counting(&calls, matches))
			_, _, _ = store.Load(ctx, "A", counting(&calls, matches))
			st := store.Stats()

			So(st.Resource, ShouldEqual, "schedule")
			So(st.TTLSeconds, ShouldEqual, 120.0)
			So(st.Entries, ShouldEqual, 1)
			So(st.Hits, ShouldEqual, uint64(1))
			So(st.Misses, ShouldEqual, uint64(1))
			So(st.HitRatio, ShouldEqual, 0.5)
		})
	})
}

func TestTTLStoreSweep(t *testing.T) {
	Convey("Given a store with an expired entry", t, func() {
		clock := &fakeClock{now: time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)}
		store := New[int]("detail", time.Minute, WithClock(clock.Now))
		store.Set("OLD2025", 1)

		Convey("When writing before a TTL has passed since the last sweep", func() {
			clock.Advance(30 * time.Second)
			store.Set("NEW2025", 2)

			Convey("Then nothing is swept", func() {
				So(store.Len(), ShouldEqual, 2)
				So(store.Stats().Evictions, ShouldEqual, uint64(0))
			})
		})

		Convey("When writing after the entry expired", func() {
			clock.Advance(61 * time.Second)
			store.Set("NEW2025", 2)

			Convey("Then the expired entry is swept", func() {
				So(store.Len(), ShouldEqual, 1)
				So(store.Stats().Evictions, ShouldEqual, uint64(1))
				_, ok := store.Get("NEW2025")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When deleting", func() {
			store.Delete("OLD2025")
			So(store.Len(), ShouldEqual, 0)
		})
	})
}

func TestTTLStoreSingleFlight(t *testing.T) {
	Convey("Given concurrent misses for one key", t, func() {
		store := New[string]("match", 5*time.Minute)
		var calls int32
		release := make(chan struct{})
		started := make(chan struct{})
		var once sync.Once

		fetch := func(context.Context) (string, bool, error) {
			atomic.AddInt32(&calls, 1)
			once.Do(func() { close(started) })
			<-release
			return "detail", true, nil
		}

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				e, _, err := store.Load(context.Background(), "ABCD2025/M001", fetch)
				if err == nil {
					results[i] = e.Data
				}
			}(i)
		}
		<-started
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		Convey("Then upstream is called once and every caller gets the value", func() {
			So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))
			for _, r := range results {
				So(r, ShouldEqual, "detail")
			}
		})
	})

	Convey("Given a waiter whose request is cancelled", t, func() {
		store := New[string]("match", 5*time.Minute)
		release := make(chan struct{})
		started := make(chan struct{})

		go func() {
			_, _, _ = store.Load(context.Background(), "K", func(context.Context) (string, bool, error) {
				close(started)
				<-release
				return "v", true, nil
			})
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, status, err := store.Load(ctx, "K", func(context.Context) (string, bool, error) {
			return "other", true, nil
		})
		close(release)

		Convey("Then it stops waiting with the context error", func() {
			So(err, ShouldEqual, context.Canceled)
			So(status, ShouldEqual, Miss)
		})
	})

	Convey("Given the caller that started the fetch is cancelled", t, func() {
		store := New[string]("results", 10*time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		var fetchErr error
		done := make(chan struct{})

		_, _, err := store.Load(ctx, "K", func(fctx context.Context) (string, bool, error) {
			cancel()
			fetchErr = fctx.Err()
			close(done)
			return "v", true, nil
		})
		<-done

		Convey("Then the fetch context is not cancelled", func() {
			So(fetchErr, ShouldBeNil)
			if err == nil {
				_, ok := store.Get("K")
				So(ok, ShouldBeTrue)
			} else {
				So(err, ShouldEqual, context.Canceled)
			}
		})
	})
}

func TestNewPanicsOnInvalidTTL(t *testing.T) {
	Convey("A non-positive TTL is rejected", t, func() {
		So(func() { New[int]("x", 0) }, ShouldPanicWith, ErrInvalidTTL)
	})
}
