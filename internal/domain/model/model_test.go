package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/beachvis/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTournament(t *testing.T) {
	convey.Convey("Given a listing entry", t, func() {
		tour := model.Tournament{
			Code:        "ABCD2025",
			Name:        "Elite16 Hamburg",
			CountryCode: "GER",
			StartDate:   "2025-07-02",
			EndDate:     "2025-07-06",
			Gender:      model.GenderWomen,
			Type:        "Elite16",
			Year:        2025,
		}

		convey.Convey("When the tournament number is unknown", func() {
			convey.So(tour.Resolved(), convey.ShouldBeFalse)

			convey.Convey("Then it serializes without the number", func() {
				raw, err := json.Marshal(tour)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldNotContainSubstring, "tournamentNo")
			})
		})

		convey.Convey("When degrading it to a detail", func() {
			detail := model.DegradedDetail(tour)

			convey.Convey("Then it is upcoming with no optional fields", func() {
				convey.So(detail.Status, convey.ShouldEqual, model.StatusUpcoming)
				convey.So(detail.Code, convey.ShouldEqual, "ABCD2025")

				raw, err := json.Marshal(detail)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldNotContainSubstring, "venue")
				convey.So(string(raw), convey.ShouldNotContainSubstring, "description")
				convey.So(string(raw), convey.ShouldContainSubstring, `"code":"ABCD2025"`)
			})
		})
	})
}

func TestBeachMatchDetail(t *testing.T) {
	convey.Convey("Given a schedule entry", t, func() {
		m := model.BeachMatch{
			No:             "123456",
			NoInTournament: "M099",
			LocalDate:      "2025-07-03",
			LocalTime:      "10:00",
			TeamAName:      "Smith/Jones",
			TeamBName:      "Brown/Green",
			Court:          "Centre",
			Status:         model.MatchScheduled,
		}

		convey.Convey("When matching ids", func() {
			convey.So(m.Matches("M099"), convey.ShouldBeTrue)
			convey.So(m.Matches("123456"), convey.ShouldBeTrue)
			convey.So(m.Matches("M100"), convey.ShouldBeFalse)
			convey.So(m.Matches(""), convey.ShouldBeFalse)
		})

		convey.Convey("When synthesizing a detail", func() {
			d := model.DetailFromBasic(m)

			convey.Convey("Then scores are zero and durations are placeholders", func() {
				convey.So(d.NoInTournament, convey.ShouldEqual, "M099")
				convey.So(d.PointsTeamASet1, convey.ShouldEqual, 0)
				convey.So(d.PointsTeamBSet2, convey.ShouldEqual, 0)
				convey.So(d.DurationSet1, convey.ShouldEqual, model.ZeroDuration)
				convey.So(d.DurationSet2, convey.ShouldEqual, model.ZeroDuration)
				convey.So(d.TotalDuration, convey.ShouldEqual, model.ZeroDuration)
			})

			convey.Convey("Then the third set is absent", func() {
				convey.So(d.HasThirdSet(), convey.ShouldBeFalse)
				convey.So(d.ThirdSetConsistent(), convey.ShouldBeTrue)

				raw, err := json.Marshal(d)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldNotContainSubstring, "Set3")
			})
		})

		convey.Convey("When a third set is recorded and cleared", func() {
			d := model.DetailFromBasic(m)
			d.SetThirdSet(15, 12, "18:00")

			convey.So(d.HasThirdSet(), convey.ShouldBeTrue)
			convey.So(*d.PointsTeamASet3, convey.ShouldEqual, 15)
			convey.So(*d.DurationSet3, convey.ShouldEqual, "18:00")

			d.ClearThirdSet()
			convey.So(d.HasThirdSet(), convey.ShouldBeFalse)
			convey.So(d.ThirdSetConsistent(), convey.ShouldBeTrue)
		})

		convey.Convey("When only part of the third set is present", func() {
			d := model.DetailFromBasic(m)
			p := 15
			d.PointsTeamASet3 = &p

			convey.So(d.ThirdSetConsistent(), convey.ShouldBeFalse)
		})
	})
}
