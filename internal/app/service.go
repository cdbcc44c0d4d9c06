// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/beachvis/internal/adapters/cache"
	"github.com/okian/beachvis/internal/adapters/vis"
	"github.com/okian/beachvis/internal/domain/model"
	"github.com/okian/beachvis/internal/domain/outcome"
	"github.com/okian/beachvis/internal/domain/viserr"
	"github.com/okian/beachvis/pkg/logger"
	"github.com/okian/beachvis/pkg/metrics"
)

// Resource kinds, one cache each.
const (
	ResourceDetail   = "detail"
	ResourceSchedule = "schedule"
	ResourceMatch    = "match"
	ResourceResults  = "results"
	ResourceListing  = "listing"
)

// Sources name the strategy that produced a value.
const (
	SourceDetailed = "detailed"
	SourceDegraded = "degraded"
	SourceFallback = "fallback"
)

// Client is the subset of the VIS client the service depends on.
type Client interface {
	ListTournaments(ctx context.Context, year int) outcome.Result[[]model.Tournament]
	FetchTournamentDetail(ctx context.Context, tournamentNo int) outcome.Result[model.TournamentDetail]
	FetchTournamentMatches(ctx context.Context, tournamentNo int) outcome.Result[[]model.BeachMatch]
	FetchMatchDetail(ctx context.Context, matchID string) outcome.Result[model.BeachMatchDetail]
	FetchTournamentRanking(ctx context.Context, tournamentNo int) outcome.Result[[]model.TournamentRanking]
}

// Fetched is a value together with its cache provenance.
type Fetched[T any] struct {
	Data      T
	Cached    bool
	Timestamp time.Time
	Source    string
	TTL       time.Duration
}

// Schedule is a tournament's match list.
type Schedule struct {
	Tournament model.Tournament
	Matches    []model.BeachMatch
}

// Results is a tournament's final standings.
type Results struct {
	Tournament model.Tournament
	Rankings   []model.TournamentRanking
}

type sourced[T any] struct {
	value  T
	source string
}

// Service composes the VIS client with one TTL cache per resource kind and
// owns the fallback policy of each resource.
type Service struct {
	client Client

	details   *cache.TTLStore[sourced[model.TournamentDetail]]
	schedules *cache.TTLStore[sourced[Schedule]]
	matches   *cache.TTLStore[sourced[model.BeachMatchDetail]]
	results   *cache.TTLStore[sourced[Results]]
	listings  *cache.TTLStore[sourced[[]model.Tournament]]

	ttls        map[string]time.Duration
	defaultYear int
	now         func() time.Time
	startedAt   time.Time

	logger logger.Logger
}

// New constructs a Service around client. Caches are created here and live
// as long as the Service.
func New(client Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		ttls: map[string]time.Duration{
			ResourceDetail:   5 * time.Minute,
			ResourceSchedule: 2 * time.Minute,
			ResourceMatch:    5 * time.Minute,
			ResourceResults:  10 * time.Minute,
			ResourceListing:  5 * time.Minute,
		},
		now: time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	clock := cache.WithClock(s.now)
	s.details = cache.New[sourced[model.TournamentDetail]](ResourceDetail, s.ttls[ResourceDetail], clock)
	s.schedules = cache.New[sourced[Schedule]](ResourceSchedule, s.ttls[ResourceSchedule], clock)
	s.matches = cache.New[sourced[model.BeachMatchDetail]](ResourceMatch, s.ttls[ResourceMatch], clock)
	s.results = cache.New[sourced[Results]](ResourceResults, s.ttls[ResourceResults], clock)
	s.listings = cache.New[sourced[[]model.Tournament]](ResourceListing, s.ttls[ResourceListing], clock)
	s.startedAt = s.now()
	return s
}

// DefaultYear is the listing year served when a caller names none.
func (s *Service) DefaultYear() int {
	if s.defaultYear > 0 {
		return s.defaultYear
	}
	return s.now().Year()
}

// TTL returns the cache TTL of a resource kind.
func (s *Service) TTL(resource string) time.Duration { return s.ttls[resource] }

// Tournaments returns the listing of a year.
func (s *Service) Tournaments(ctx context.Context, year int) outcome.Result[Fetched[[]model.Tournament]] {
	return load(ctx, s, s.listings, strconv.Itoa(year), "", "GetBeachTournamentList",
		func(ctx context.Context) ([]model.Tournament, string, *viserr.Error) {
			r := s.client.ListTournaments(ctx, year)
			return r.Value(), SourceDetailed, r.Err()
		})
}

// Tournament returns the detail of the tournament with code. When the
// enhanced call fails the listing entry is served as a degraded detail.
func (s *Service) Tournament(ctx context.Context, code string) outcome.Result[Fetched[model.TournamentDetail]] {
	return load(ctx, s, s.details, code, code, "GetBeachTournament",
		func(ctx context.Context) (model.TournamentDetail, string, *viserr.Error) {
			found := s.findTournament(ctx, code)
			if !found.IsOk() {
				return model.TournamentDetail{}, "", found.Err()
			}
			t := found.Value()

			var strategies []outcome.Strategy[model.TournamentDetail]
			if t.Resolved() {
				strategies = append(strategies, outcome.Strategy[model.TournamentDetail]{
					Name: SourceDetailed,
					Run: func(ctx context.Context) outcome.Result[model.TournamentDetail] {
						return s.client.FetchTournamentDetail(ctx, t.TournamentNo)
					},
				})
			}
			strategies = append(strategies, outcome.Strategy[model.TournamentDetail]{
				Name: SourceDegraded,
				Run: func(context.Context) outcome.Result[model.TournamentDetail] {
					return outcome.Ok(model.DegradedDetail(t))
				},
			})

			r, source := outcome.FirstSuccess(ctx, strategies...)
			if !r.IsOk() {
				return model.TournamentDetail{}, "", r.Err()
			}
			s.noteSource(ctx, ResourceDetail, code, source)
			return r.Value(), source, nil
		})
}

// Schedule returns the match list of the tournament with code.
func (s *Service) Schedule(ctx context.Context, code string) outcome.Result[Fetched[Schedule]] {
	return load(ctx, s, s.schedules, code, code, "GetBeachMatchList",
		func(ctx context.Context) (Schedule, string, *viserr.Error) {
			resolved := s.resolve(ctx, code)
			if !resolved.IsOk() {
				return Schedule{}, "", resolved.Err()
			}
			t := resolved.Value()
			r := s.client.FetchTournamentMatches(ctx, t.TournamentNo)
			if !r.IsOk() {
				return Schedule{}, "", r.Err()
			}
			return Schedule{Tournament: t, Matches: r.Value()}, SourceDetailed, nil
		})
}

// Match returns the detail of one match. When the detail call fails the
// match is synthesized from the tournament schedule.
func (s *Service) Match(ctx context.Context, code, matchID string) outcome.Result[Fetched[model.BeachMatchDetail]] {
	return load(ctx, s, s.matches, code+"/"+matchID, code, "GetBeachMatch",
		func(ctx context.Context) (model.BeachMatchDetail, string, *viserr.Error) {
			r, source := outcome.FirstSuccess(ctx,
				outcome.Strategy[model.BeachMatchDetail]{
					Name: SourceDetailed,
					Run: func(ctx context.Context) outcome.Result[model.BeachMatchDetail] {
						return s.client.FetchMatchDetail(ctx, matchID)
					},
				},
				outcome.Strategy[model.BeachMatchDetail]{
					Name: SourceFallback,
					Run: func(ctx context.Context) outcome.Result[model.BeachMatchDetail] {
						return s.matchFromSchedule(ctx, code, matchID)
					},
				},
			)
			if !r.IsOk() {
				return model.BeachMatchDetail{}, "", r.Err()
			}
			s.noteSource(ctx, ResourceMatch, code, source)
			return r.Value(), source, nil
		})
}

func (s *Service) matchFromSchedule(ctx context.Context, code, matchID string) outcome.Result[model.BeachMatchDetail] {
	sched := s.Schedule(ctx, code)
	if !sched.IsOk() {
		return outcome.Err[model.BeachMatchDetail](sched.Err())
	}
	for _, m := range sched.Value().Data.Matches {
		if m.Matches(matchID) {
			return outcome.Ok(model.DetailFromBasic(m))
		}
	}
	return outcome.Err[model.BeachMatchDetail](viserr.NotFound(s.request("GetBeachMatchList", code),
		fmt.Sprintf("match %s not found in tournament %s", matchID, code)))
}

// Results returns the final standings of the tournament with code.
func (s *Service) Results(ctx context.Context, code string) outcome.Result[Fetched[Results]] {
	return load(ctx, s, s.results, code, code, "GetBeachTournamentRanking",
		func(ctx context.Context) (Results, string, *viserr.Error) {
			resolved := s.resolve(ctx, code)
			if !resolved.IsOk() {
				return Results{}, "", resolved.Err()
			}
			t := resolved.Value()
			r := s.client.FetchTournamentRanking(ctx, t.TournamentNo)
			if !r.IsOk() {
				return Results{}, "", r.Err()
			}
			return Results{Tournament: t, Rankings: r.Value()}, SourceDetailed, nil
		})
}

// findTournament looks code up in the cached listing of its year.
func (s *Service) findTournament(ctx context.Context, code string) outcome.Result[model.Tournament] {
	year := vis.ListingYear(code, s.defaultYear, s.now())
	listing := s.Tournaments(ctx, year)
	if !listing.IsOk() {
		return outcome.Err[model.Tournament](listing.Err().WithTournamentCode(code))
	}
	return vis.Lookup(code, listing.Value().Data, s.request("GetBeachTournamentList", code))
}

// resolve is findTournament restricted to entries with a tournament number.
func (s *Service) resolve(ctx context.Context, code string) outcome.Result[model.Tournament] {
	found := s.findTournament(ctx, code)
	if !found.IsOk() {
		return found
	}
	if !found.Value().Resolved() {
		return outcome.Err[model.Tournament](viserr.Data(s.request("GetBeachTournamentList", code),
			fmt.Errorf("listing entry %s has no tournament number", code)))
	}
	return found
}

func (s *Service) request(endpoint, code string) viserr.Request {
	return viserr.Request{Endpoint: endpoint, TournamentCode: code, Now: s.now()}
}

func (s *Service) noteSource(ctx context.Context, resource, code, source string) {
	if source == SourceDetailed {
		return
	}
	metrics.RecordFallback(resource, source)
	s.logger.Warn(ctx, "serving fallback data",
		logger.String("resource", resource),
		logger.String("tournament_code", code),
		logger.String("source", source),
	)
}

// failure turns a cache load error into a classified error. A caller that
// stopped waiting because its own request ended gets a timeout.
func (s *Service) failure(ctx context.Context, err error, req viserr.Request) *viserr.Error {
	var e *viserr.Error
	if errors.As(err, &e) {
		return e.WithTournamentCode(req.TournamentCode)
	}
	if ctx.Err() != nil {
		return viserr.Timeout(req, err)
	}
	return viserr.Classify(err, req)
}

// load serves key from store or runs fetch through it. Only values produced
// by the primary strategy are cached.
func load[T any](
	ctx context.Context,
	s *Service,
	store *cache.TTLStore[sourced[T]],
	key, code, endpoint string,
	fetch func(ctx context.Context) (T, string, *viserr.Error),
) outcome.Result[Fetched[T]] {
	entry, status, err := store.Load(ctx, key, func(ctx context.Context) (sourced[T], bool, error) {
		v, source, e := fetch(ctx)
		if e != nil {
			return sourced[T]{}, false, e
		}
		return sourced[T]{value: v, source: source}, source == SourceDetailed, nil
	})
	if err != nil {
		return outcome.Err[Fetched[T]](s.failure(ctx, err, s.request(endpoint, code)))
	}
	return outcome.Ok(Fetched[T]{
		Data:      entry.Data.value,
		Cached:    status == cache.Hit,
		Timestamp: entry.Timestamp,
		Source:    entry.Data.source,
		TTL:       store.TTL(),
	})
}

// Stats is a snapshot of service state for monitoring.
type Stats struct {
	StartedAt     time.Time     `json:"startedAt"`
	UptimeSeconds float64       `json:"uptimeSeconds"`
	Caches        []cache.Stats `json:"caches"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	return Stats{
		StartedAt:     s.startedAt,
		UptimeSeconds: s.now().Sub(s.startedAt).Seconds(),
		Caches: []cache.Stats{
			s.details.Stats(),
			s.schedules.Stats(),
			s.matches.Stats(),
			s.results.Stats(),
			s.listings.Stats(),
		},
	}
}
