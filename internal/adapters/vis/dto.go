package vis

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// envelope is the outer shape of every VIS JSON reply.
type envelope[T any] struct {
	Data T `json:"data"`
}

// VIS serializes the same field as a string, a number or null depending on
// the request type, so the wire types below accept all three.

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
	default:
		*s = flexString(b)
	}
	return nil
}

func (s flexString) String() string { return string(s) }

type flexInt struct {
	Value int
	Valid bool
}

func (n *flexInt) UnmarshalJSON(b []byte) error {
	raw, ok, err := numberText(b)
	if err != nil || !ok {
		*n = flexInt{}
		return err
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*n = flexInt{Value: v, Valid: true}
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Unparseable numbers are treated as absent rather than failing the
		// whole payload.
		*n = flexInt{}
		return nil
	}
	*n = flexInt{Value: int(f), Valid: true}
	return nil
}

func (n flexInt) Or(def int) int {
	if !n.Valid {
		return def
	}
	return n.Value
}

type flexFloat struct {
	Value float64
	Valid bool
}

func (n *flexFloat) UnmarshalJSON(b []byte) error {
	raw, ok, err := numberText(b)
	if err != nil || !ok {
		*n = flexFloat{}
		return err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = flexFloat{}
		return nil
	}
	*n = flexFloat{Value: f, Valid: true}
	return nil
}

// numberText returns the textual number held by b, which may be a JSON
// number or a quoted string. ok is false for null and empty strings.
func numberText(b []byte) (string, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false, nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return "", false, err
		}
		v = strings.TrimSpace(v)
		return v, v != "", nil
	}
	return string(b), true, nil
}

type tournamentDTO struct {
	No                flexInt    `json:"No"`
	Code              flexString `json:"Code"`
	Name              flexString `json:"Name"`
	CountryCode       flexString `json:"CountryCode"`
	StartDateMainDraw flexString `json:"StartDateMainDraw"`
	EndDateMainDraw   flexString `json:"EndDateMainDraw"`
	Gender            flexString `json:"Gender"`
	Type              flexString `json:"Type"`
	Season            flexInt    `json:"Season"`
	Status            flexInt    `json:"Status"`
	City              flexString `json:"City"`
	CountryName       flexString `json:"CountryName"`
	Title             flexString `json:"Title"`
}

// placeholder reports an object VIS returns instead of data when the caller
// lacks the privilege to read it.
func (d *tournamentDTO) placeholder() bool {
	return d == nil || (!d.No.Valid && d.Code == "")
}

type matchDTO struct {
	No              flexString `json:"No"`
	NoInTournament  flexString `json:"NoInTournament"`
	LocalDate       flexString `json:"LocalDate"`
	LocalTime       flexString `json:"LocalTime"`
	TeamAName       flexString `json:"TeamAName"`
	TeamBName       flexString `json:"TeamBName"`
	Court           flexString `json:"Court"`
	Status          flexInt    `json:"Status"`
	PointsTeamASet1 flexInt    `json:"PointsTeamASet1"`
	PointsTeamBSet1 flexInt    `json:"PointsTeamBSet1"`
	PointsTeamASet2 flexInt    `json:"PointsTeamASet2"`
	PointsTeamBSet2 flexInt    `json:"PointsTeamBSet2"`
	PointsTeamASet3 flexInt    `json:"PointsTeamASet3"`
	PointsTeamBSet3 flexInt    `json:"PointsTeamBSet3"`
	DurationSet1    flexInt    `json:"DurationSet1"`
	DurationSet2    flexInt    `json:"DurationSet2"`
	DurationSet3    flexInt    `json:"DurationSet3"`
	RoundName       flexString `json:"RoundName"`
	Phase           flexString `json:"Phase"`
}

func (d *matchDTO) placeholder() bool {
	return d == nil || (d.No == "" && d.NoInTournament == "")
}

type rankingDTO struct {
	Rank               flexInt    `json:"Rank"`
	TeamName           flexString `json:"TeamName"`
	NoTeam             flexString `json:"NoTeam"`
	TeamFederationCode flexString `json:"TeamFederationCode"`
	EarnedPointsTeam   flexInt    `json:"EarnedPointsTeam"`
	EarningsTotalTeam  flexFloat  `json:"EarningsTotalTeam"`
}
