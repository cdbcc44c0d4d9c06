package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/beachvis/internal/domain/model"
	"github.com/okian/beachvis/internal/domain/viserr"
	"github.com/okian/beachvis/pkg/logger"
)

// Failure messages per route.
const (
	msgDetailUnavailable   = "Tournament data unavailable"
	msgScheduleUnavailable = "Tournament schedule data unavailable"
	msgMatchUnavailable    = "Match data unavailable"
	msgResultsUnavailable  = "Tournament results unavailable"
	msgListingUnavailable  = "Tournament list unavailable"
)

// TournamentHandler serves the tournament-scoped resources.
type TournamentHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewTournamentHandler creates a new tournament handler.
func NewTournamentHandler(deps Dependencies, log logger.Logger) *TournamentHandler {
	return &TournamentHandler{deps: deps, logger: log}
}

type scheduleResponse struct {
	Matches          []model.BeachMatch `json:"matches"`
	TournamentCode   string             `json:"tournamentCode"`
	TournamentNumber int                `json:"tournamentNumber"`
	LastUpdated      time.Time          `json:"lastUpdated"`
	TotalMatches     int                `json:"totalMatches"`
	Cached           bool               `json:"cached"`
}

type matchResponse struct {
	Match          model.BeachMatchDetail `json:"match"`
	TournamentCode string                 `json:"tournamentCode"`
	MatchID        string                 `json:"matchId"`
	LastUpdated    time.Time              `json:"lastUpdated"`
	Cached         bool                   `json:"cached"`
	DataSource     string                 `json:"dataSource"`
}

type resultsResponse struct {
	Rankings         []model.TournamentRanking `json:"rankings"`
	TournamentCode   string                    `json:"tournamentCode"`
	TournamentNumber int                       `json:"tournamentNumber"`
	LastUpdated      time.Time                 `json:"lastUpdated"`
	TotalTeams       int                       `json:"totalTeams"`
}

type listResponse struct {
	Tournaments []model.Tournament `json:"tournaments"`
	Year        int                `json:"year"`
	Total       int                `json:"total"`
	LastUpdated time.Time          `json:"lastUpdated"`
	Cached      bool               `json:"cached"`
}

// HandleDetail handles GET /tournament/{code}.
func (h *TournamentHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res := h.deps.Tournament(r.Context(), code)
	if !res.IsOk() {
		h.fail(w, r, res.Err(), failure{
			resource: "tournament",
			message:  msgDetailUnavailable,
			notFound: notFoundMessage(code),
		})
		return
	}
	f := res.Value()
	writeCached(w, f, f.Data)
}

// HandleSchedule handles GET /tournament/{code}/schedule.
func (h *TournamentHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res := h.deps.Schedule(r.Context(), code)
	if !res.IsOk() {
		h.fail(w, r, res.Err(), failure{
			resource: "matches",
			empty:    []model.BeachMatch{},
			message:  msgScheduleUnavailable,
			notFound: notFoundMessage(code),
		})
		return
	}
	f := res.Value()
	matches := f.Data.Matches
	if matches == nil {
		matches = []model.BeachMatch{}
	}
	writeCached(w, f, scheduleResponse{
		Matches:          matches,
		TournamentCode:   code,
		TournamentNumber: f.Data.Tournament.TournamentNo,
		LastUpdated:      f.Timestamp,
		TotalMatches:     len(matches),
		Cached:           f.Cached,
	})
}

// HandleMatch handles GET /tournament/{code}/matches/{matchId}.
func (h *TournamentHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code, matchID := vars["code"], vars["matchId"]
	res := h.deps.Match(r.Context(), code, matchID)
	if !res.IsOk() {
		h.fail(w, r, res.Err(), failure{
			resource: "match",
			message:  msgMatchUnavailable,
			notFound: msgMatchUnavailable,
		})
		return
	}
	f := res.Value()
	writeCached(w, f, matchResponse{
		Match:          f.Data,
		TournamentCode: code,
		MatchID:        matchID,
		LastUpdated:    f.Timestamp,
		Cached:         f.Cached,
		DataSource:     f.Source,
	})
}

// HandleResults handles GET /tournament/{code}/results.
func (h *TournamentHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res := h.deps.Results(r.Context(), code)
	if !res.IsOk() {
		h.fail(w, r, res.Err(), failure{
			resource: "rankings",
			empty:    []model.TournamentRanking{},
			message:  msgResultsUnavailable,
			notFound: notFoundMessage(code),
		})
		return
	}
	f := res.Value()
	rankings := f.Data.Rankings
	if rankings == nil {
		rankings = []model.TournamentRanking{}
	}
	writeCached(w, f, resultsResponse{
		Rankings:         rankings,
		TournamentCode:   code,
		TournamentNumber: f.Data.Tournament.TournamentNo,
		LastUpdated:      f.Timestamp,
		TotalTeams:       len(rankings),
	})
}

// HandleList handles GET /api/tournaments?year=YYYY.
func (h *TournamentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"), h.deps.DefaultYear())
	if err != nil {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":       err.Error(),
			"tournaments": []model.Tournament{},
			"errorType":   "bad_request",
			"retryable":   false,
		})
		return
	}
	res := h.deps.Tournaments(r.Context(), year)
	if !res.IsOk() {
		h.fail(w, r, res.Err(), failure{
			resource: "tournaments",
			empty:    []model.Tournament{},
			message:  msgListingUnavailable,
			notFound: msgListingUnavailable,
		})
		return
	}
	f := res.Value()
	list := f.Data
	if list == nil {
		list = []model.Tournament{}
	}
	writeCached(w, f, listResponse{
		Tournaments: list,
		Year:        year,
		Total:       len(list),
		LastUpdated: f.Timestamp,
		Cached:      f.Cached,
	})
}

func parseYear(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1990 || year > 2100 {
		return 0, fmt.Errorf("%w: year must be between 1990 and 2100", ErrBadRequest)
	}
	return year, nil
}

func notFoundMessage(code string) string {
	return fmt.Sprintf("Tournament with code %s not found", code)
}

// failure describes how one route reports a classified error.
type failure struct {
	// resource is the payload key, sent as empty (or null) data.
	resource string
	empty    any
	message  string
	notFound string
}

// fail applies the decision table to e and writes the error payload.
func (h *TournamentHandler) fail(w http.ResponseWriter, r *http.Request, e *viserr.Error, f failure) {
	d := viserr.Decide(e)
	msg := f.message
	if e.Category.Type == viserr.TypeNotFound {
		msg = f.notFound
	}

	h.logger.Warn(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.String("request_id", RequestID(r.Context())),
		logger.String("tournament_code", e.Context.TournamentCode),
		logger.String("error_type", string(e.Category.Type)),
		logger.Int("status", d.Status),
		logger.String("message", viserr.Sanitize(e.Message)),
	)

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(headerErrorType, string(e.Category.Type))
	if d.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
	}
	body := map[string]any{
		"error":       msg,
		f.resource:    f.empty,
		"errorType":   e.Category.Type,
		"retryable":   d.Retryable,
		"userMessage": viserr.UserMessage(e),
	}
	if len(e.Suggestions) > 0 {
		body["suggestions"] = e.Suggestions
	}
	writeJSON(w, d.Status, body)
}
