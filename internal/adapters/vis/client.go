// Package vis is the client for the FIVB VIS tournament data API.
//
// Every operation returns an outcome.Result; transport failures, non-2xx
// replies, undecodable payloads and privilege placeholders are classified
// into *viserr.Error before they leave the package.
package vis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/beachvis/internal/domain/model"
	"github.com/okian/beachvis/internal/domain/outcome"
	"github.com/okian/beachvis/internal/domain/viserr"
	"github.com/okian/beachvis/pkg/logger"
	"github.com/okian/beachvis/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Client calls VIS through an injected Transport.
type Client struct {
	baseURL     string
	transport   Transport
	limiter     *rate.Limiter
	timeout     time.Duration
	defaultYear int
	userAgent   string
	now         func() time.Time
	log         logger.Logger
}

// New returns a client for the VIS endpoint at baseURL.
func New(baseURL string, transport Transport, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		transport: transport,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		timeout:   defaultTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("vis")
	}
	return c
}

// DefaultYear is the configured fallback listing year, zero when unset.
func (c *Client) DefaultYear() int { return c.defaultYear }

// ListTournaments returns the tournaments whose main draw starts in year.
func (c *Client) ListTournaments(ctx context.Context, year int) outcome.Result[[]model.Tournament] {
	data, e := call[[]tournamentDTO](ctx, c, tournamentListRequest(year), "")
	if e != nil {
		return outcome.Err[[]model.Tournament](e)
	}
	out := make([]model.Tournament, 0, len(data))
	for _, d := range data {
		t := normalizeTournament(d)
		if t.Code == "" {
			continue
		}
		if t.Year == 0 {
			t.Year = year
		}
		out = append(out, t)
	}
	return outcome.Ok(out)
}

// FindTournament looks code up in the listing of its year.
func (c *Client) FindTournament(ctx context.Context, code string) outcome.Result[model.Tournament] {
	year := ListingYear(code, c.defaultYear, c.now())
	listing := c.ListTournaments(ctx, year)
	if !listing.IsOk() {
		return outcome.Err[model.Tournament](listing.Err().WithTournamentCode(code))
	}
	return Lookup(code, listing.Value(), c.request(reqTournamentList, code))
}

// ResolveTournamentNumber maps a tournament code to the number every richer
// VIS call is keyed by.
func (c *Client) ResolveTournamentNumber(ctx context.Context, code string) outcome.Result[int] {
	found := c.FindTournament(ctx, code)
	if !found.IsOk() {
		return outcome.Err[int](found.Err())
	}
	t := found.Value()
	if !t.Resolved() {
		return outcome.Err[int](viserr.Data(c.request(reqTournamentList, code),
			fmt.Errorf("listing entry %s has no tournament number", code)))
	}
	return outcome.Ok(t.TournamentNo)
}

// FetchTournamentDetail returns the enhanced detail of a resolved tournament.
func (c *Client) FetchTournamentDetail(ctx context.Context, tournamentNo int) outcome.Result[model.TournamentDetail] {
	data, e := call[*tournamentDTO](ctx, c, tournamentRequest(tournamentNo), "")
	if e != nil {
		return outcome.Err[model.TournamentDetail](e)
	}
	if data.placeholder() {
		return outcome.Err[model.TournamentDetail](c.placeholder(ctx, reqTournament, fmt.Sprintf("tournament %d", tournamentNo)))
	}
	return outcome.Ok(normalizeTournamentDetail(*data, c.now()))
}

// FetchTournamentMatches returns the schedule of a tournament.
func (c *Client) FetchTournamentMatches(ctx context.Context, tournamentNo int) outcome.Result[[]model.BeachMatch] {
	data, e := call[[]matchDTO](ctx, c, matchListRequest(tournamentNo), "")
	if e != nil {
		return outcome.Err[[]model.BeachMatch](e)
	}
	out := make([]model.BeachMatch, 0, len(data))
	for i := range data {
		if data[i].placeholder() {
			continue
		}
		out = append(out, normalizeMatch(data[i]))
	}
	return outcome.Ok(out)
}

// FetchMatchDetail returns the per-set detail of one match.
func (c *Client) FetchMatchDetail(ctx context.Context, matchID string) outcome.Result[model.BeachMatchDetail] {
	data, e := call[*matchDTO](ctx, c, matchRequest(matchID), "")
	if e != nil {
		return outcome.Err[model.BeachMatchDetail](e)
	}
	if data.placeholder() {
		return outcome.Err[model.BeachMatchDetail](c.placeholder(ctx, reqMatch, "match "+matchID))
	}
	return outcome.Ok(normalizeMatchDetail(*data))
}

// FetchTournamentRanking returns the final standings ordered by rank.
func (c *Client) FetchTournamentRanking(ctx context.Context, tournamentNo int) outcome.Result[[]model.TournamentRanking] {
	data, e := call[[]rankingDTO](ctx, c, rankingRequest(tournamentNo), "")
	if e != nil {
		return outcome.Err[[]model.TournamentRanking](e)
	}
	out := make([]model.TournamentRanking, 0, len(data))
	for _, d := range data {
		if d.TeamName == "" && d.NoTeam == "" {
			continue
		}
		out = append(out, normalizeRanking(d))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Rank, out[j].Rank
		if ri == 0 || rj == 0 {
			return rj == 0 && ri != 0
		}
		return ri < rj
	})
	return outcome.Ok(out)
}

func (c *Client) request(endpoint, code string) viserr.Request {
	return viserr.Request{Endpoint: endpoint, TournamentCode: code, UserAgent: c.userAgent, Now: c.now()}
}

func (c *Client) placeholder(ctx context.Context, endpoint, what string) *viserr.Error {
	e := viserr.Unauthenticated(c.request(endpoint, ""), fmt.Sprintf("%s: %v", what, ErrPlaceholder))
	c.report(ctx, e, 0)
	return e
}

// call performs one paced, time-bounded VIS request and decodes the data
// member of the reply into T.
func call[T any](ctx context.Context, c *Client, r visRequest, code string) (T, *viserr.Error) {
	var zero T
	req := c.request(r.Type, code)
	start := time.Now()
	fail := func(e *viserr.Error) (T, *viserr.Error) {
		c.report(ctx, e, time.Since(start))
		return zero, e
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(viserr.Timeout(req, err))
	}

	u, err := buildURL(c.baseURL, r)
	if err != nil {
		return fail(viserr.Classify(err, req))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.transport.Fetch(callCtx, u)
	if err != nil {
		if ctx.Err() != nil {
			return fail(viserr.Timeout(req, err))
		}
		return fail(viserr.Classify(err, req))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(viserr.FromStatus(resp.StatusCode, req))
	}

	var env envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fail(viserr.Data(req, err))
	}

	elapsed := time.Since(start)
	metrics.RecordUpstreamRequest(r.Type, "ok", float64(elapsed.Microseconds())/1000)
	c.log.Debug(ctx, "vis request", logger.String("endpoint", r.Type), logger.Duration("duration", elapsed))
	return env.Data, nil
}

// report logs and counts a classified failure. The message is sanitized
// because it may carry upstream payload fragments.
func (c *Client) report(ctx context.Context, e *viserr.Error, elapsed time.Duration) {
	op := e.Category.Endpoint
	metrics.RecordUpstreamRequest(op, string(e.Category.Type), float64(elapsed.Microseconds())/1000)
	metrics.RecordUpstreamError(op, string(e.Category.Type))

	fields := []logger.Field{
		logger.String("endpoint", op),
		logger.String("tournament_code", e.Context.TournamentCode),
		logger.String("error_type", string(e.Category.Type)),
		logger.String("severity", string(e.Category.Severity)),
		logger.Int("status", e.StatusCode),
		logger.Duration("duration", elapsed),
		logger.String("message", viserr.Sanitize(e.Message)),
	}
	switch e.Category.Severity {
	case viserr.SeverityHigh, viserr.SeverityCritical:
		c.log.Error(ctx, "vis request failed", fields...)
	default:
		c.log.Warn(ctx, "vis request failed", fields...)
	}
}
