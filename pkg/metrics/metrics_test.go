package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/factionops/scopebot/pkg/metrics"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager against it", func() {
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(registry),
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("unit"),
			)

			Convey("Then every metric registers without collision", func() {
				So(m, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When overriding the histogram buckets", func() {
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(registry),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then construction still succeeds", func() {
				So(m, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through every helper", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					metrics.RecordAPICall("faction")
					metrics.RecordAPIError("faction")
					metrics.RecordAPIRateLimited()
					metrics.UpdateAPIRemaining(42)
					metrics.RecordSweep(12.5)
					metrics.RecordSweepError()
					metrics.RecordEligibleMember()
					metrics.RecordNotification(true)
					metrics.RecordNotification(false)
					metrics.RecordAssignmentReport(3)
					metrics.RecordSheetFetch("CPR", nil)
					metrics.RecordSheetFetch("CPR", errors.New("boom"))
					metrics.RecordMalformedRow()
					metrics.RecordHTTPRequest("status", "GET", "200")
					metrics.RecordHTTPRequestDuration("status", "GET", "200", 3.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the backing registry", func() {
			families, err := metrics.GetRegistry().Gather()

			Convey("Then the service metrics are present", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["scopebot_faction_sweep_cycles_total"], ShouldBeTrue)
				So(names["scopebot_faction_api_calls_total"], ShouldBeTrue)
				So(names["scopebot_faction_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
