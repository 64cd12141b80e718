package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/kitchen/internal/adapters/ai"
	"github.com/okian/kitchen/internal/config"
	"github.com/okian/kitchen/internal/domain/content"
	"github.com/okian/kitchen/internal/domain/types"
	"github.com/okian/kitchen/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// judge answers every prompt with a fixed evaluation.
var judge = ai.GeneratorFunc(func(_ context.Context, _ string, _ ...content.Part) (string, error) {
	return "Good call on the walk-in.\nScore: 8", nil
})

func TestMain(m *testing.M) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration with a CSV leaderboard", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.LeaderboardBackend = config.BackendCSV
		cfg.LeaderboardPath = filepath.Join(t.TempDir(), "leaderboard.csv")

		convey.Convey("When the service is built", func() {
			svc, err := newService(ctx, cfg, judge, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then it is started and reports stats", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["players"], convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the backend is unknown", func() {
			cfg.LeaderboardBackend = "redis"
			svc, err := newService(ctx, cfg, judge, logger.Get())

			convey.Convey("Then construction fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})
	})
}

func TestMux(t *testing.T) {
	convey.Convey("Given the full HTTP stack on a memory leaderboard", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.LeaderboardBackend = config.BackendMemory

		svc, err := newService(ctx, cfg, judge, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newMux(ctx, svc))
		defer ts.Close()

		convey.Convey("When a round is played end to end", func() {
			resp, err := http.Post(ts.URL+"/rounds", "application/json", strings.NewReader(`{"player":"Alice","text":"bistro"}`))
			convey.So(err, convey.ShouldBeNil)
			var round types.Round
			convey.So(json.NewDecoder(resp.Body).Decode(&round), convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

			resp, err = http.Post(ts.URL+"/rounds/"+round.ID+"/choice", "application/json", strings.NewReader(`{"choice":"b"}`))
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			resp, err = http.Post(ts.URL+"/rounds/"+round.ID+"/submit", "application/json", nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(json.NewDecoder(resp.Body).Decode(&round), convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then the score lands on the leaderboard", func() {
				convey.So(*round.Score, convey.ShouldEqual, 8)

				resp, err := http.Get(ts.URL + "/leaderboard")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				var entries []types.Entry
				convey.So(json.NewDecoder(resp.Body).Decode(&entries), convey.ShouldBeNil)
				convey.So(entries, convey.ShouldResemble, []types.Entry{{Rank: 1, Player: "Alice", Score: 8}})
			})
		})

		convey.Convey("When the docs are requested", func() {
			resp, err := http.Get(ts.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the document is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a context that expires", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater returns without panicking", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
