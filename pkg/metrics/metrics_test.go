package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("league"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.matchesRecorded.Inc()

			Convey("Then its collectors are registered under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_league_matches_recorded_total"], ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecordHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When league activity is recorded", func() {
			before := testutil.ToFloat64(globalManager.matchesScheduled)
			RecordScheduleGenerated(6)
			RecordMatchRecorded()
			RecordAchievementsDerived(5)
			RecordCouponsScored(2)

			Convey("Then counters move by the recorded amounts", func() {
				So(testutil.ToFloat64(globalManager.matchesScheduled)-before, ShouldEqual, 6)
				So(testutil.ToFloat64(globalManager.matchesRecorded), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.achievements), ShouldBeGreaterThanOrEqualTo, 5)
				So(testutil.ToFloat64(globalManager.couponsScored), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When labelled outcomes are recorded", func() {
			RecordPredictionOutcome("top_scorer", "correct")
			RecordPredictionOutcome("top_scorer", "correct")
			RecordEventPublished("match.recorded")

			Convey("Then each label set counts separately", func() {
				So(testutil.ToFloat64(globalManager.predictionOutcomes.WithLabelValues("top_scorer", "correct")), ShouldBeGreaterThanOrEqualTo, 2)
				So(testutil.ToFloat64(globalManager.predictionOutcomes.WithLabelValues("top_scorer", "unjudged")), ShouldEqual, 0)
				So(testutil.ToFloat64(globalManager.eventsPublished.WithLabelValues("match.recorded")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(64)
			UpdateWorkerCount(3)
			UpdateWorkerActiveCount(1)
			UpdateSystemGoroutineCount(12)
			UpdateSystemMemoryUsage(2048)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 64)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.workerActive), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 2048)
			})
		})

		Convey("When histograms and errors are recorded", func() {
			So(func() {
				RecordStandingsComputed(1.5)
				RecordHTTPRequest("/standings", "GET", "200")
				RecordHTTPRequestDuration("/standings", "GET", "200", 3)
				RecordRepositoryLatency("list_matches", 0.4)
				RecordWorkerProcessingLatency("finalize", 12)
				RecordWorkerError()
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordJobCoalesced()
				RecordEventPublishError("coupons.scored")
				RecordBoardPublish()
				RecordBoardError()
				RecordReconcileRun(1)
				RecordErrorByComponent("api", "not_found")
				RecordErrorByEndpoint("/matches/{id}/result", "PUT", "validation")
			}, ShouldNotPanic)

			Convey("Then the custom registry gathers without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
