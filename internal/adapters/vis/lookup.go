package vis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/okian/beachvis/internal/domain/model"
	"github.com/okian/beachvis/internal/domain/outcome"
	"github.com/okian/beachvis/internal/domain/viserr"
)

const (
	maxSuggestions     = 3
	maxSuggestDistance = 3
	minListingYear     = 1990
	maxListingYear     = 2100
)

var trailingYear = regexp.MustCompile(`(\d{4})$`)

// ListingYear picks the listing a code is looked up in: the trailing
// four-digit year of the code, else defaultYear, else the year of now.
func ListingYear(code string, defaultYear int, now time.Time) int {
	if m := trailingYear.FindStringSubmatch(code); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil && y >= minListingYear && y <= maxListingYear {
			return y
		}
	}
	if defaultYear > 0 {
		return defaultYear
	}
	return now.Year()
}

// Lookup finds code in a year's listing with a case-sensitive exact match.
// A miss is a not_found failure carrying close codes as suggestions.
func Lookup(code string, listing []model.Tournament, req viserr.Request) outcome.Result[model.Tournament] {
	for _, t := range listing {
		if t.Code == code {
			return outcome.Ok(t)
		}
	}
	req.TournamentCode = code
	if req.Endpoint == "" {
		req.Endpoint = reqTournamentList
	}
	e := viserr.NotFound(req, fmt.Sprintf("Tournament with code %s not found", code))
	e.Suggestions = Suggest(code, listing)
	return outcome.Err[model.Tournament](e)
}

// Suggest returns up to three listing codes resembling code, closest first.
func Suggest(code string, listing []model.Tournament) []string {
	if code == "" {
		return nil
	}
	type candidate struct {
		code string
		dist int
	}
	needle := strings.ToUpper(code)
	var found []candidate
	for _, t := range listing {
		if t.Code == "" || t.Code == code {
			continue
		}
		d := fuzzy.LevenshteinDistance(needle, strings.ToUpper(t.Code))
		if d <= maxSuggestDistance || fuzzy.MatchNormalizedFold(code, t.Code) {
			found = append(found, candidate{code: t.Code, dist: d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].code < found[j].code
	})
	out := make([]string, 0, maxSuggestions)
	for _, c := range found {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.code)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
