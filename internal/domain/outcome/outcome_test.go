package outcome_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/okian/beachvis/internal/domain/outcome"
	"github.com/okian/beachvis/internal/domain/viserr"
	"github.com/smartystreets/goconvey/convey"
)

func okStrategy(name string, v int, calls *[]string) outcome.Strategy[int] {
	return outcome.Strategy[int]{Name: name, Run: func(context.Context) outcome.Result[int] {
		*calls = append(*calls, name)
		return outcome.Ok(v)
	}}
}

func failStrategy(name string, e *viserr.Error, calls *[]string) outcome.Strategy[int] {
	return outcome.Strategy[int]{Name: name, Run: func(context.Context) outcome.Result[int] {
		*calls = append(*calls, name)
		return outcome.Err[int](e)
	}}
}

func TestResult(t *testing.T) {
	convey.Convey("Given results", t, func() {
		convey.Convey("When the result is Ok", func() {
			r := outcome.Ok(7)
			v, err := r.Unpack()

			convey.So(r.IsOk(), convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 7)
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("When the result is Err", func() {
			e := viserr.FromStatus(http.StatusBadGateway, viserr.Request{Endpoint: "GetBeachMatch"})
			r := outcome.Err[int](e)

			convey.So(r.IsOk(), convey.ShouldBeFalse)
			convey.So(r.Value(), convey.ShouldEqual, 0)
			convey.So(r.Err(), convey.ShouldEqual, e)
		})

		convey.Convey("When Err is given nil", func() {
			r := outcome.Err[int](nil)

			convey.So(r.IsOk(), convey.ShouldBeFalse)
			convey.So(r.Err().Category.Type, convey.ShouldEqual, viserr.TypeUnknown)
		})

		convey.Convey("When mapping", func() {
			convey.So(outcome.Map(outcome.Ok(2), func(v int) string { return "v" }).Value(), convey.ShouldEqual, "v")

			e := viserr.NotFound(viserr.Request{}, "gone")
			mapped := outcome.Map(outcome.Err[int](e), func(v int) string { return "v" })
			convey.So(mapped.Err(), convey.ShouldEqual, e)
		})
	})
}

func TestFirstSuccess(t *testing.T) {
	convey.Convey("Given ordered strategies", t, func() {
		ctx := context.Background()
		var calls []string
		upstream := viserr.FromStatus(http.StatusUnauthorized, viserr.Request{Endpoint: "detailed"})
		missing := viserr.NotFound(viserr.Request{Endpoint: "fallback"}, "match not in schedule")

		convey.Convey("When the first strategy succeeds", func() {
			r, name := outcome.FirstSuccess(ctx, okStrategy("detailed", 1, &calls), okStrategy("fallback", 2, &calls))

			convey.Convey("Then later strategies are not run", func() {
				convey.So(r.Value(), convey.ShouldEqual, 1)
				convey.So(name, convey.ShouldEqual, "detailed")
				convey.So(calls, convey.ShouldResemble, []string{"detailed"})
			})
		})

		convey.Convey("When the first strategy fails", func() {
			r, name := outcome.FirstSuccess(ctx, failStrategy("detailed", upstream, &calls), okStrategy("fallback", 2, &calls))

			convey.Convey("Then the fallback value is returned", func() {
				convey.So(r.Value(), convey.ShouldEqual, 2)
				convey.So(name, convey.ShouldEqual, "fallback")
				convey.So(calls, convey.ShouldResemble, []string{"detailed", "fallback"})
			})
		})

		convey.Convey("When every strategy fails", func() {
			r, name := outcome.FirstSuccess(ctx, failStrategy("detailed", upstream, &calls), failStrategy("fallback", missing, &calls))

			convey.Convey("Then the failures are aggregated and the last decides", func() {
				convey.So(r.IsOk(), convey.ShouldBeFalse)
				convey.So(name, convey.ShouldEqual, "")
				convey.So(r.Err().Category.Type, convey.ShouldEqual, viserr.TypeNotFound)
				convey.So(r.Err().Causes, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			r, _ := outcome.FirstSuccess(cctx, okStrategy("detailed", 1, &calls))

			convey.Convey("Then nothing runs and the failure is a timeout", func() {
				convey.So(calls, convey.ShouldBeEmpty)
				convey.So(r.Err().Category.Type, convey.ShouldEqual, viserr.TypeTimeout)
			})
		})

		convey.Convey("When there are no strategies", func() {
			r, _ := outcome.FirstSuccess[int](ctx)
			convey.So(r.IsOk(), convey.ShouldBeFalse)
		})
	})
}
