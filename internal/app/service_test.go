package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/teamfit/internal/adapters/roster"
	app "github.com/okian/teamfit/internal/app"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/pkg/logger"
	"github.com/okian/teamfit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

const exampleInput = `{
  "team": [
    {"attributes": {"a": 2, "b": 4}},
    {"attributes": {"a": 8, "b": 4}}
  ],
  "applicants": [
    {"name": "X", "attributes": {"a": 5, "b": 4}},
    {"name": "Y", "attributes": {"a": 10, "b": 10}}
  ]
}`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestService_Run(t *testing.T) {
	Convey("Given a service with a private metrics registry", t, func() {
		ctx := context.Background()
		var logs bytes.Buffer
		So(logger.InitWithWriter(&logs, logger.FormatJSON), ShouldBeNil)

		registry := prometheus.NewRegistry()
		svc := app.New(
			app.WithLogger(logger.Get()),
			app.WithMetrics(metrics.NewManager(metrics.WithRegistry(registry))),
			app.WithRunIDFunc(func() string { return "run-1" }),
		)

		Convey("When running the worked example", func() {
			var out bytes.Buffer
			report, err := svc.Run(ctx, writeInput(t, exampleInput), &out)

			Convey("Then scores should follow the team mean", func() {
				So(err, ShouldBeNil)
				So(report.ScoredApplicants, ShouldHaveLength, 2)
				So(report.ScoredApplicants[0].Name, ShouldEqual, "X")
				So(report.ScoredApplicants[0].Score, ShouldEqual, 1.0)
				So(report.ScoredApplicants[1].Name, ShouldEqual, "Y")
				So(report.ScoredApplicants[1].Score, ShouldEqual, 0.4)
			})

			Convey("And the report should be written to the writer", func() {
				So(out.String(), ShouldContainSubstring, `"scoredApplicants": [`)
				So(out.String(), ShouldContainSubstring, `"name": "X"`)
			})

			Convey("And the run should be logged with its id", func() {
				So(logs.String(), ShouldContainSubstring, `"run_id":"run-1"`)
				So(logs.String(), ShouldContainSubstring, "scoring run finished")
			})
		})

		Convey("When the input file is missing", func() {
			var out bytes.Buffer
			_, err := svc.Run(ctx, filepath.Join(t.TempDir(), "missing.json"), &out)

			Convey("Then it should fail at the load stage and write nothing", func() {
				So(errors.Is(err, roster.ErrOpen), ShouldBeTrue)
				So(out.Len(), ShouldEqual, 0)
				So(logs.String(), ShouldContainSubstring, `"stage":"load"`)
			})
		})

		Convey("When the team is empty", func() {
			var out bytes.Buffer
			_, err := svc.Run(ctx, writeInput(t, `{"team": [], "applicants": [{"name": "X", "attributes": {"a": 1}}]}`), &out)

			Convey("Then it should fail at the score stage", func() {
				So(errors.Is(err, scoring.ErrEmptyTeam), ShouldBeTrue)
				So(out.Len(), ShouldEqual, 0)
				So(logs.String(), ShouldContainSubstring, `"stage":"score"`)
			})
		})

		Convey("When attribute values overflow the distance", func() {
			var out bytes.Buffer
			_, err := svc.Run(ctx, writeInput(t, `{"team": [{"attributes": {"a": 0}}], "applicants": [{"name": "huge", "attributes": {"a": 1e308}}]}`), &out)

			Convey("Then it should fail at the score stage before writing", func() {
				So(errors.Is(err, scoring.ErrNonFinite), ShouldBeTrue)
				So(out.Len(), ShouldEqual, 0)
				So(logs.String(), ShouldContainSubstring, `"stage":"score"`)
			})
		})

		Convey("When attribute values exceed the scale", func() {
			var out bytes.Buffer
			report, err := svc.Run(ctx, writeInput(t, `{"team": [{"attributes": {"a": 0}}], "applicants": [{"name": "big", "attributes": {"a": 15}}]}`), &out)

			Convey("Then the score should be clamped and a warning logged", func() {
				So(err, ShouldBeNil)
				So(report.ScoredApplicants[0].Score, ShouldEqual, 0.0)
				So(logs.String(), ShouldContainSubstring, "attribute value outside assumed scale")
				So(logs.String(), ShouldContainSubstring, `"subject":"big"`)
			})
		})
	})
}

func TestService_MetricsFile(t *testing.T) {
	Convey("Given a service that writes a metrics textfile", t, func() {
		ctx := context.Background()
		promPath := filepath.Join(t.TempDir(), "teamfit.prom")
		svc := app.New(
			app.WithMetrics(metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))),
			app.WithMetricsFile(promPath),
		)

		Convey("When a run succeeds", func() {
			var out bytes.Buffer
			_, err := svc.Run(ctx, writeInput(t, exampleInput), &out)

			Convey("Then the textfile should record the run", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(promPath)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `teamfit_scoring_runs_total{status="ok"} 1`)
				So(string(data), ShouldContainSubstring, "teamfit_scoring_applicants_scored_total 2")
				So(string(data), ShouldContainSubstring, "teamfit_scoring_attribute_dimensions 2")
			})
		})
	})
}

func TestService_Score(t *testing.T) {
	Convey("Given a service with a three-decimal scorer", t, func() {
		svc := app.New(
			app.WithScorer(scoring.New(scoring.WithPrecision(3))),
			app.WithMetrics(metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))),
		)

		Convey("When scoring a roster", func() {
			var out bytes.Buffer
			report, err := svc.Run(context.Background(), writeInput(t,
				`{"team": [{"attributes": {"a": 0, "b": 0}}], "applicants": [{"name": "X", "attributes": {"a": 1, "b": 2}}]}`), &out)

			Convey("Then the configured precision should be used", func() {
				So(err, ShouldBeNil)
				So(report.ScoredApplicants[0].Score, ShouldEqual, 0.842)
				So(out.String(), ShouldContainSubstring, `"score": 0.842`)
			})
		})
	})
}
