package warmup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/beachvis/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
	}
}

// counters is shared by the workers of one pass.
type counters struct {
	requested atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	failed    atomic.Int64

	mu       sync.Mutex
	statuses map[int]int
}

func newCounters() *counters {
	return &counters{statuses: make(map[int]int)}
}

func (c *counters) status(code int) {
	c.mu.Lock()
	c.statuses[code]++
	c.mu.Unlock()
}

// apply folds the counters into stats.
func (c *counters) apply(stats *Stats) {
	stats.Requested += int(c.requested.Load())
	stats.Hits += int(c.hits.Load())
	stats.Misses += int(c.misses.Load())
	stats.Failed += int(c.failed.Load())
	c.mu.Lock()
	defer c.mu.Unlock()
	for code, n := range c.statuses {
		stats.Statuses[code] += n
	}
}

// warmPaths requests every url concurrently using a worker pool.
func warmPaths(ctx context.Context, config *Config, urls []string, c *counters) {
	client := newHTTPClient(config.Timeout)
	log := logger.Get().Named("warmup")

	var (
		mu         sync.Mutex
		lastReport time.Time
	)

	jobs := make(chan string, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for url := range jobs {
				if ctx.Err() != nil {
					return
				}
				warmSingle(ctx, client, url, config.Verbose, c)

				mu.Lock()
				report := time.Since(lastReport) >= ProgressInterval
				if report {
					lastReport = time.Now()
				}
				mu.Unlock()
				if report {
					log.Info(ctx, "progress",
						logger.Int("done", int(c.requested.Load())),
						logger.Int("total", len(urls)),
						logger.Int("hits", int(c.hits.Load())),
						logger.Int("misses", int(c.misses.Load())),
						logger.Int("failed", int(c.failed.Load())))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, url := range urls {
			select {
			case <-ctx.Done():
				return
			case jobs <- url:
			}
		}
	}()

	wg.Wait()
}

func warmSingle(ctx context.Context, client *HTTPClient, url string, verbose bool, c *counters) {
	c.requested.Add(1)

	resp, err := client.Get(ctx, url)
	if err != nil {
		c.failed.Add(1)
		logger.Get().Warn(ctx, "request failed", logger.String("url", url), logger.Error(err))
		return
	}
	defer closeBody(resp)

	c.status(resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		c.failed.Add(1)
	}
	switch resp.Header.Get("X-Cache") {
	case cacheHit:
		c.hits.Add(1)
	case cacheMiss:
		c.misses.Add(1)
	}

	if verbose {
		logger.Get().Info(ctx, "warmed",
			logger.String("url", url),
			logger.Int("status", resp.StatusCode),
			logger.String("cache", resp.Header.Get("X-Cache")))
	}
}
