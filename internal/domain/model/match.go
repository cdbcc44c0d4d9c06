package model

// Match statuses.
const (
	MatchScheduled = "scheduled"
	MatchLive      = "live"
	MatchFinished  = "finished"
)

// ZeroDuration is the placeholder duration of a set with no recorded time.
const ZeroDuration = "00:00"

// BeachMatch is one scheduled or played match of a tournament.
type BeachMatch struct {
	No             string `json:"no,omitempty"` // upstream match number
	NoInTournament string `json:"noInTournament"`
	LocalDate      string `json:"localDate"`
	LocalTime      string `json:"localTime"`
	TeamAName      string `json:"teamAName"`
	TeamBName      string `json:"teamBName"`
	Court          string `json:"court"`
	Status         string `json:"status"`
}

// Matches reports whether id names this match, either by its number within
// the tournament or by its upstream number.
func (m BeachMatch) Matches(id string) bool {
	return id != "" && (m.NoInTournament == id || m.No == id)
}

// BeachMatchDetail extends a match with per-set scores and durations.
// The set 3 fields are either all nil or all set.
type BeachMatchDetail struct {
	BeachMatch
	PointsTeamASet1 int     `json:"pointsTeamASet1"`
	PointsTeamBSet1 int     `json:"pointsTeamBSet1"`
	PointsTeamASet2 int     `json:"pointsTeamASet2"`
	PointsTeamBSet2 int     `json:"pointsTeamBSet2"`
	PointsTeamASet3 *int    `json:"pointsTeamASet3,omitempty"`
	PointsTeamBSet3 *int    `json:"pointsTeamBSet3,omitempty"`
	DurationSet1    string  `json:"durationSet1"`
	DurationSet2    string  `json:"durationSet2"`
	DurationSet3    *string `json:"durationSet3,omitempty"`
	TotalDuration   string  `json:"totalDuration"`
	RoundName       string  `json:"roundName"`
	Phase           string  `json:"phase"`
}

// SetThirdSet records a played third set.
func (d *BeachMatchDetail) SetThirdSet(pointsA, pointsB int, duration string) {
	d.PointsTeamASet3 = &pointsA
	d.PointsTeamBSet3 = &pointsB
	d.DurationSet3 = &duration
}

// ClearThirdSet drops every set 3 field.
func (d *BeachMatchDetail) ClearThirdSet() {
	d.PointsTeamASet3 = nil
	d.PointsTeamBSet3 = nil
	d.DurationSet3 = nil
}

// HasThirdSet reports whether a third set was played.
func (d BeachMatchDetail) HasThirdSet() bool {
	return d.PointsTeamASet3 != nil && d.PointsTeamBSet3 != nil && d.DurationSet3 != nil
}

// ThirdSetConsistent reports whether the set 3 fields are all present or
// all absent.
func (d BeachMatchDetail) ThirdSetConsistent() bool {
	present := 0
	if d.PointsTeamASet3 != nil {
		present++
	}
	if d.PointsTeamBSet3 != nil {
		present++
	}
	if d.DurationSet3 != nil {
		present++
	}
	return present == 0 || present == 3
}

// DetailFromBasic synthesizes a detail from a schedule entry: scores are
// zero, durations are ZeroDuration and there is no third set.
func DetailFromBasic(m BeachMatch) BeachMatchDetail {
	return BeachMatchDetail{
		BeachMatch:    m,
		DurationSet1:  ZeroDuration,
		DurationSet2:  ZeroDuration,
		TotalDuration: ZeroDuration,
	}
}
