package vis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/beachvis/internal/domain/model"
)

const dateLayout = "2006-01-02"

// Upstream match status codes.
const (
	visMatchScheduled = 0
	visMatchRunning   = 1
)

func normalizeGender(g flexString) string {
	switch strings.ToUpper(string(g)) {
	case "0", "M", "MEN":
		return model.GenderMen
	case "1", "W", "WOMEN":
		return model.GenderWomen
	default:
		return string(g)
	}
}

// normalizeDate keeps the YYYY-MM-DD part of an upstream timestamp.
func normalizeDate(s flexString) string {
	v := string(s)
	if len(v) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, v[:len(dateLayout)]); err == nil {
			return v[:len(dateLayout)]
		}
	}
	return v
}

func normalizeTournament(d tournamentDTO) model.Tournament {
	t := model.Tournament{
		Code:         string(d.Code),
		Name:         string(d.Name),
		CountryCode:  string(d.CountryCode),
		StartDate:    normalizeDate(d.StartDateMainDraw),
		EndDate:      normalizeDate(d.EndDateMainDraw),
		Gender:       normalizeGender(d.Gender),
		Type:         string(d.Type),
		Year:         d.Season.Or(0),
		TournamentNo: d.No.Or(0),
	}
	if t.Year == 0 && len(t.StartDate) >= 4 {
		t.Year, _ = strconv.Atoi(t.StartDate[:4])
	}
	return t
}

func normalizeTournamentDetail(d tournamentDTO, now time.Time) model.TournamentDetail {
	detail := model.TournamentDetail{
		Tournament:  normalizeTournament(d),
		Description: string(d.Title),
	}
	detail.Status = tournamentStatus(detail.StartDate, detail.EndDate, now)
	switch {
	case d.City != "" && d.CountryName != "":
		detail.Venue = string(d.City) + ", " + string(d.CountryName)
	case d.City != "":
		detail.Venue = string(d.City)
	}
	return detail
}

// tournamentStatus derives the lifecycle status from the main draw dates.
// Unknown dates yield upcoming.
func tournamentStatus(start, end string, now time.Time) string {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return model.StatusUpcoming
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		e = s
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(s):
		return model.StatusUpcoming
	case day.After(e):
		return model.StatusCompleted
	default:
		return model.StatusLive
	}
}

func normalizeMatchStatus(s flexInt) string {
	if !s.Valid {
		return model.MatchScheduled
	}
	switch {
	case s.Value <= visMatchScheduled:
		return model.MatchScheduled
	case s.Value == visMatchRunning:
		return model.MatchLive
	default:
		return model.MatchFinished
	}
}

func normalizeMatch(d matchDTO) model.BeachMatch {
	return model.BeachMatch{
		No:             string(d.No),
		NoInTournament: string(d.NoInTournament),
		LocalDate:      normalizeDate(d.LocalDate),
		LocalTime:      string(d.LocalTime),
		TeamAName:      string(d.TeamAName),
		TeamBName:      string(d.TeamBName),
		Court:          string(d.Court),
		Status:         normalizeMatchStatus(d.Status),
	}
}

// formatDuration renders seconds as MM:SS; minutes may exceed 59.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return model.ZeroDuration
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func normalizeMatchDetail(d matchDTO) model.BeachMatchDetail {
	detail := model.BeachMatchDetail{
		BeachMatch:      normalizeMatch(d),
		PointsTeamASet1: d.PointsTeamASet1.Or(0),
		PointsTeamBSet1: d.PointsTeamBSet1.Or(0),
		PointsTeamASet2: d.PointsTeamASet2.Or(0),
		PointsTeamBSet2: d.PointsTeamBSet2.Or(0),
		DurationSet1:    formatDuration(d.DurationSet1.Or(0)),
		DurationSet2:    formatDuration(d.DurationSet2.Or(0)),
		RoundName:       string(d.RoundName),
		Phase:           string(d.Phase),
	}
	total := d.DurationSet1.Or(0) + d.DurationSet2.Or(0)

	a, b := d.PointsTeamASet3, d.PointsTeamBSet3
	if a.Valid && b.Valid && a.Value+b.Value > 0 {
		detail.SetThirdSet(a.Value, b.Value, formatDuration(d.DurationSet3.Or(0)))
		total += d.DurationSet3.Or(0)
	}
	detail.TotalDuration = formatDuration(total)
	return detail
}

func normalizeRanking(d rankingDTO) model.TournamentRanking {
	return model.TournamentRanking{
		Rank:        d.Rank.Or(0),
		TeamName:    string(d.TeamName),
		NoTeam:      string(d.NoTeam),
		CountryCode: string(d.TeamFederationCode),
		Points:      d.EarnedPointsTeam.Or(0),
		Earnings:    d.EarningsTotalTeam.Value,
	}
}
