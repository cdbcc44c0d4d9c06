// Package model contains domain models passed between layers.
package model

// Tournament statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// Genders as exposed to clients.
const (
	GenderMen   = "M"
	GenderWomen = "W"
)

// Tournament is one entry of a year's tournament listing.
// Code is unique within a year.
type Tournament struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	CountryCode  string `json:"countryCode"`
	StartDate    string `json:"startDate"` // YYYY-MM-DD
	EndDate      string `json:"endDate"`   // YYYY-MM-DD
	Gender       string `json:"gender"`
	Type         string `json:"type"`
	Year         int    `json:"year"`
	TournamentNo int    `json:"tournamentNo,omitempty"` // zero until resolved
}

// Resolved reports whether the upstream tournament number is known.
func (t Tournament) Resolved() bool { return t.TournamentNo > 0 }

// TournamentDetail is a tournament with its lifecycle status and venue data.
type TournamentDetail struct {
	Tournament
	Status      string `json:"status"`
	Venue       string `json:"venue,omitempty"`
	Description string `json:"description,omitempty"`
}

// DegradedDetail builds a detail from a bare listing entry when the richer
// upstream call is unavailable.
func DegradedDetail(t Tournament) TournamentDetail {
	return TournamentDetail{Tournament: t, Status: StatusUpcoming}
}

// TournamentRanking is one team's final standing.
type TournamentRanking struct {
	Rank        int     `json:"rank"`
	TeamName    string  `json:"teamName"`
	NoTeam      string  `json:"noTeam"`
	CountryCode string  `json:"countryCode"`
	Points      int     `json:"points"`
	Earnings    float64 `json:"earnings"`
}
