package vis

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Upstream request types.
const (
	reqTournamentList    = "GetBeachTournamentList"
	reqTournament        = "GetBeachTournament"
	reqMatchList         = "GetBeachMatchList"
	reqMatch             = "GetBeachMatch"
	reqTournamentRanking = "GetBeachTournamentRanking"
)

// Fields requested per request type.
var (
	tournamentListFields = []string{
		"No", "Code", "Name", "CountryCode", "StartDateMainDraw", "EndDateMainDraw",
		"Gender", "Type", "Season",
	}
	tournamentFields = append(append([]string{}, tournamentListFields...),
		"Status", "City", "CountryName", "Title")
	matchListFields = []string{
		"No", "NoInTournament", "LocalDate", "LocalTime", "TeamAName", "TeamBName",
		"Court", "Status",
	}
	matchFields = append(append([]string{}, matchListFields...),
		"PointsTeamASet1", "PointsTeamBSet1", "PointsTeamASet2", "PointsTeamBSet2",
		"PointsTeamASet3", "PointsTeamBSet3", "DurationSet1", "DurationSet2", "DurationSet3",
		"RoundName", "Phase")
	rankingFields = []string{
		"Rank", "TeamName", "NoTeam", "TeamFederationCode", "EarnedPointsTeam", "EarningsTotalTeam",
	}
)

type visRequest struct {
	XMLName xml.Name   `xml:"Request"`
	Type    string     `xml:"Type,attr"`
	No      string     `xml:"No,attr,omitempty"`
	Fields  string     `xml:"Fields,attr,omitempty"`
	Filter  *visFilter `xml:"Filter,omitempty"`
}

type visFilter struct {
	FirstDate    string `xml:"FirstDate,attr,omitempty"`
	LastDate     string `xml:"LastDate,attr,omitempty"`
	NoTournament string `xml:"NoTournament,attr,omitempty"`
}

func newRequest(typ string, fields []string) visRequest {
	return visRequest{Type: typ, Fields: strings.Join(fields, " ")}
}

func tournamentListRequest(year int) visRequest {
	r := newRequest(reqTournamentList, tournamentListFields)
	r.Filter = &visFilter{
		FirstDate: fmt.Sprintf("%04d-01-01", year),
		LastDate:  fmt.Sprintf("%04d-12-31", year),
	}
	return r
}

func tournamentRequest(no int) visRequest {
	r := newRequest(reqTournament, tournamentFields)
	r.No = strconv.Itoa(no)
	return r
}

func matchListRequest(tournamentNo int) visRequest {
	r := newRequest(reqMatchList, matchListFields)
	r.Filter = &visFilter{NoTournament: strconv.Itoa(tournamentNo)}
	return r
}

func matchRequest(matchID string) visRequest {
	r := newRequest(reqMatch, matchFields)
	r.No = matchID
	return r
}

func rankingRequest(tournamentNo int) visRequest {
	r := newRequest(reqTournamentRanking, rankingFields)
	r.No = strconv.Itoa(tournamentNo)
	return r
}

// buildURL encodes r as the Request query parameter of base.
func buildURL(base string, r visRequest) (string, error) {
	payload, err := xml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("Request", string(payload))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
