package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applied to a manager", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test_namespace"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithIterationBuckets([]float64{1, 10, 100}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the configuration is stored", func() {
				So(m.namespace, ShouldEqual, "test_namespace")
				So(m.subsystem, ShouldEqual, "motion")
				So(m.iterationBuckets, ShouldResemble, []float64{1, 10, 100})
				So(m.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(m.enabled, ShouldBeFalse)
				So(m.refreshInterval, ShouldEqual, 5*time.Second)
			})

			Convey("And metric names carry the namespace", func() {
				m.clipsStored.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_namespace_motion_clips_stored"], ShouldBeTrue)
			})

			Convey("And the iteration histogram uses its own buckets", func() {
				m.fabrikIterations.Observe(4)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var buckets int
				for _, f := range families {
					if f.GetName() == "test_namespace_motion_fabrik_iterations" {
						buckets = len(f.GetMetric()[0].GetHistogram().GetBucket())
					}
				}
				So(buckets, ShouldEqual, 3)
			})
		})

		Convey("When empty values are passed", func() {
			m := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "stride")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording motion operations", func() {
			So(func() {
				RecordOperation("foot_lock", "ok")
				RecordOperation("cross_fade", "error")
				RecordOperationDuration("foot_lock", 12.5)
				RecordFramesProcessed("foot_lock", 120)
				RecordFramesProcessed("foot_lock", 0)
				RecordFabrikIterations(4)
				RecordContactRuns("left", 3)
				UpdateClipsStored(7)
			}, ShouldNotPanic)
		})

		Convey("When recording worker and HTTP metrics", func() {
			So(func() {
				UpdateWorkerCount(8)
				RecordWorkerBatch("reconstruct", 100, 3.2)
				RecordWorkerError("reconstruct")
				RecordHTTPRequest("/clips", "POST", "201")
				RecordHTTPRequestDuration("/clips", "POST", "201", 4.0)
				RecordErrorByEndpoint("/blend", "POST", "bad_request")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry exposes them", func() {
			RecordOperation("scale", "ok")
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
