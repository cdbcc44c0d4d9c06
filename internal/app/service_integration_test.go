package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/beachvis/internal/app"
	"github.com/okian/beachvis/internal/adapters/vis"
	"github.com/okian/beachvis/internal/domain/viserr"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	integrationListing = `{"data":[{"No":"42","Code":"ABCD2025","Name":"Elite16 Hamburg","CountryCode":"GER","StartDateMainDraw":"2025-07-02","EndDateMainDraw":"2025-07-06","Gender":1,"Type":"Elite16","Season":"2025"}]}`
	integrationMatches = `{"data":[
		{"No":"9001","NoInTournament":"M001","LocalDate":"2025-07-02","LocalTime":"09:00","TeamAName":"A/B","TeamBName":"C/D","Court":"1","Status":2},
		{"No":"9002","NoInTournament":"M002","LocalDate":"2025-07-02","LocalTime":"10:00","TeamAName":"E/F","TeamBName":"G/H","Court":"2","Status":1},
		{"No":"9099","NoInTournament":"M099","LocalDate":"2025-07-03","LocalTime":"11:00","TeamAName":"I/J","TeamBName":"K/L","Court":"1","Status":0}
	]}`
)

// upstream fakes VIS, answering by the request type named in the query.
type upstream struct {
	srv   *httptest.Server
	calls sync.Map
	delay time.Duration
}

func newUpstream(t *testing.T, routes map[string]func(http.ResponseWriter)) *upstream {
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := r.URL.Query().Get("Request")
		for typ, h := range routes {
			if strings.Contains(req, `Type="`+typ+`"`) {
				n, _ := u.calls.LoadOrStore(typ, new(int32))
				atomic.AddInt32(n.(*int32), 1)
				time.Sleep(u.delay)
				h(w)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) count(typ string) int32 {
	n, ok := u.calls.Load(typ)
	if !ok {
		return 0
	}
	return atomic.LoadInt32(n.(*int32))
}

func write(body string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given the service over a VIS client talking to a fake upstream", t, func() {
		up := newUpstream(t, map[string]func(http.ResponseWriter){
			"GetBeachTournamentList": write(integrationListing),
			"GetBeachMatchList":      write(integrationMatches),
			"GetBeachMatch":          func(w http.ResponseWriter) { w.WriteHeader(http.StatusUnauthorized) },
		})
		client := vis.New(up.srv.URL, vis.NewDirectTransport(up.srv.Client(), "beachvis-test"))
		svc := service.New(client, service.WithDefaultYear(2025))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When the schedule is requested", func() {
			r := svc.Schedule(ctx, "ABCD2025")

			Convey("Then the code is resolved to its number and the matches returned", func() {
				So(r.IsOk(), ShouldBeTrue)
				So(r.Value().Data.Tournament.TournamentNo, ShouldEqual, 42)
				So(r.Value().Data.Matches, ShouldHaveLength, 3)
				So(r.Value().Cached, ShouldBeFalse)
			})
		})

		Convey("When a match detail is rejected with 401", func() {
			r := svc.Match(ctx, "ABCD2025", "M099")

			Convey("Then the schedule entry is served as fallback", func() {
				So(r.IsOk(), ShouldBeTrue)
				So(r.Value().Source, ShouldEqual, service.SourceFallback)
				So(r.Value().Data.TeamAName, ShouldEqual, "I/J")
				So(r.Value().Data.HasThirdSet(), ShouldBeFalse)
				So(up.count("GetBeachMatch"), ShouldEqual, int32(1))
			})
		})

		Convey("When the code is unknown", func() {
			r := svc.Tournament(ctx, "ABCD2026")

			Convey("Then the 2026 listing is consulted and the code is not found", func() {
				So(r.IsOk(), ShouldBeFalse)
				So(r.Err().Category.Type, ShouldEqual, viserr.TypeNotFound)
				So(r.Err().Suggestions, ShouldContain, "ABCD2025")
			})
		})

		Convey("When many requests miss the same key at once", func() {
			up.delay = 50 * time.Millisecond
			var wg sync.WaitGroup
			var ok int32
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if svc.Schedule(ctx, "ABCD2025").IsOk() {
						atomic.AddInt32(&ok, 1)
					}
				}()
			}
			wg.Wait()

			Convey("Then upstream sees one listing and one match list request", func() {
				So(atomic.LoadInt32(&ok), ShouldEqual, int32(10))
				So(up.count("GetBeachTournamentList"), ShouldEqual, int32(1))
				So(up.count("GetBeachMatchList"), ShouldEqual, int32(1))
			})
		})
	})
}
