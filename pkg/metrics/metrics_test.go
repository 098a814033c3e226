package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults apply", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "paddock")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(5*time.Second),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics register on the given registry", func() {
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				manager.sessionsProcessed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When two managers share one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording standings activity", func() {
			before := testutil.ToFloat64(globalManager.sessionsProcessed)
			RecordSessionProcessed()
			RecordComputation("ok", 12)
			RecordPositionShape("wrapped_data")
			RecordOrphanedPosition()
			UpdateCachedSeasons(2)

			Convey("Then counters move", func() {
				So(testutil.ToFloat64(globalManager.sessionsProcessed), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.cachedSeasons), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.shapeFallbacks.WithLabelValues("wrapped_data")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording upstream, queue, worker and http activity", func() {
			So(func() {
				RecordUpstreamRequest("sessions", "200", 35)
				RecordUpstreamCache("sessions", "hit")
				UpdateQueueSize(3)
				RecordQueueRejected("full")
				UpdateWorkerCount(2)
				RecordWorkerJob(40)
				RecordWorkerError()
				RecordHTTPRequest("standings", "GET", "200", 4)
				RecordErrorByComponent("openf1", "status")
				RecordErrorByType("server_error", "high")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
			}, ShouldNotPanic)

			Convey("Then the registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["paddock_standings_upstream_requests_total"], ShouldBeTrue)
				So(names["paddock_standings_refresh_queue_size"], ShouldBeTrue)
				So(names["paddock_standings_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
