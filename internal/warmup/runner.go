package warmup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/beachvis/pkg/logger"
)

// ErrNoTournaments is returned when the listing for the year is empty.
var ErrNoTournaments = errors.New("no tournaments listed")

const percentageMultiplier = 100

// Run lists the year's tournaments from a running service and requests
// detail, schedule and results for every code, Passes times over.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
		Statuses:  make(map[int]int),
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Passes < 1 {
		config.Passes = 1
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	logger.Get().Info(ctx, "starting cache warmup",
		logger.String("baseURL", config.BaseURL),
		logger.Int("year", config.Year),
		logger.Int("passes", config.Passes),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: List the year's tournaments
	tournaments, err := listTournaments(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("tournament listing failed: %w", err)
	}

	// Step 3: Request every resource, pass by pass
	urls := resourceURLs(config.BaseURL, tournaments)
	for pass := 1; pass <= config.Passes; pass++ {
		c := newCounters()
		warmPaths(ctx, config, urls, c)
		c.apply(stats)
		logger.Get().Info(ctx, "pass completed",
			logger.Int("pass", pass),
			logger.Int("hits", int(c.hits.Load())),
			logger.Int("misses", int(c.misses.Load())),
			logger.Int("failed", int(c.failed.Load())))
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/api/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func listTournaments(ctx context.Context, config *Config, stats *Stats) ([]Tournament, error) {
	u := config.BaseURL + "/api/tournaments"
	if config.Year > 0 {
		u += "?year=" + strconv.Itoa(config.Year)
	}

	var list listResponse
	if err := newHTTPClient(config.Timeout).getJSON(ctx, u, &list); err != nil {
		return nil, err
	}
	stats.Year = list.Year
	stats.Tournaments = len(list.Tournaments)
	if len(list.Tournaments) == 0 {
		return nil, fmt.Errorf("%w for %d", ErrNoTournaments, list.Year)
	}

	logger.Get().Info(ctx, "tournaments listed",
		logger.Int("year", list.Year),
		logger.Int("count", len(list.Tournaments)))
	return list.Tournaments, nil
}

func resourceURLs(base string, tournaments []Tournament) []string {
	urls := make([]string, 0, len(tournaments)*len(resourcePaths))
	for _, t := range tournaments {
		if t.Code == "" {
			continue
		}
		code := url.PathEscape(t.Code)
		for _, p := range resourcePaths {
			urls = append(urls, base+fmt.Sprintf(p, code))
		}
	}
	return urls
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var hitRate, requestsPerSecond float64

	if answered := stats.Hits + stats.Misses; answered > 0 {
		hitRate = float64(stats.Hits) / float64(answered) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("year", stats.Year),
		logger.Int("tournaments", stats.Tournaments),
		logger.Int("requested", stats.Requested),
		logger.Int("hits", stats.Hits),
		logger.Int("misses", stats.Misses),
		logger.Int("failed", stats.Failed),
		logger.Any("statuses", stats.Statuses),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("hitRate", hitRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
