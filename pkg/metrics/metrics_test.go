package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.roundsStarted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "kitchen_challenge_rounds_started_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.leaderboardUpdates.Inc()
				expected := `
# HELP test_unit_leaderboard_updates_total Leaderboard score increments applied
# TYPE test_unit_leaderboard_updates_total counter
test_unit_leaderboard_updates_total{env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_unit_leaderboard_updates_total")
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then every recorder is safe to call", func() {
			So(func() {
				RecordRoundStarted()
				RecordRoundScored(7)
				RecordRoundAbandoned()
				UpdateActiveRounds(3)
				RecordAIRequest("scenario", "ok", 120)
				RecordAIFallback("feedback", "empty")
				RecordLeaderboardUpdate()
				UpdateLeaderboardPlayers(2)
				RecordLeaderboardLatency("memory", "update", 0.5)
				RecordRoundDuplicate()
				UpdateQueueSize(4)
				UpdateQueueCapacity(10)
				RecordQueueEnqueue()
				RecordQueueRejected()
				UpdateWorkerCount(2)
				RecordWorkerProcessed("ok", 15)
				RecordBulkRow(true)
				RecordBulkRow(false)
				RecordHTTPRequest("leaderboard", "GET", "200", 1)
				RecordErrorByComponent("ai", "timeout")
				RecordErrorByEndpoint("rounds", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)
		})

		Convey("Then counters move", func() {
			before := testutil.ToFloat64(globalManager.roundsScored)
			RecordRoundScored(4)
			So(testutil.ToFloat64(globalManager.roundsScored), ShouldEqual, before+1)
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
