// Package service runs one scoring pass end to end: read the roster, score
// every applicant against the team mean, write the report.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teamfit/internal/adapters/roster"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/internal/domain/types"
	"github.com/okian/teamfit/pkg/logger"
	"github.com/okian/teamfit/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Pipeline stages, used as the metrics error label.
const (
	stageLoad    = "load"
	stageScore   = "score"
	stageWrite   = "write"
	stageMetrics = "metrics"
)

// Service wires the scorer to roster I/O, logging and metrics.
type Service struct {
	scorer      *scoring.Scorer
	metrics     *metrics.Manager
	metricsFile string
	logger      logger.Logger
	newRunID    func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScorer sets the scorer used for every run.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager runs are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMetricsFile makes every run write its metrics to path.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithRunIDFunc overrides how run ids are generated.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// New constructs a Service with a default scorer and the process-wide metrics.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:   scoring.New(),
		metrics:  metrics.Default(),
		logger:   logger.Nop(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loads the roster at inputPath, scores it and writes the report to w.
func (s *Service) Run(ctx context.Context, inputPath string, w io.Writer) (types.Report, error) {
	start := time.Now()
	log := s.logger.With(logger.String("run_id", s.newRunID()))
	log.Debug(ctx, "scoring run started", logger.String("input", inputPath))

	report, stage, err := s.run(ctx, log, inputPath, w)
	elapsedMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	if err != nil {
		s.metrics.RecordError(stage)
		s.metrics.RecordRun(metrics.StatusError, elapsedMs)
		log.Error(ctx, "scoring run failed", logger.String("stage", stage), logger.Error(err))
	} else {
		s.metrics.RecordRun(metrics.StatusOK, elapsedMs)
		log.Info(ctx, "scoring run finished",
			logger.Int("applicants", len(report.ScoredApplicants)),
			logger.Float64("duration_ms", elapsedMs),
		)
	}

	s.flushMetrics(ctx, log)
	return report, err
}

func (s *Service) run(ctx context.Context, log logger.Logger, inputPath string, w io.Writer) (types.Report, string, error) {
	r, err := roster.LoadFile(ctx, inputPath)
	if err != nil {
		return types.Report{}, stageLoad, err
	}

	report, err := s.score(ctx, log, r)
	if err != nil {
		return types.Report{}, stageScore, err
	}

	if err := roster.WriteReport(w, report); err != nil {
		return types.Report{}, stageWrite, err
	}
	return report, "", nil
}

func (s *Service) score(ctx context.Context, log logger.Logger, r model.Roster) (types.Report, error) {
	if violations := s.scorer.OutOfRange(r.Team, r.Applicants); len(violations) > 0 {
		s.metrics.RecordOutOfRange(len(violations))
		for _, v := range violations {
			log.Warn(ctx, "attribute value outside assumed scale",
				logger.String("subject", v.Subject),
				logger.String("attribute", v.Attribute),
				logger.Float64("value", v.Value),
				logger.Float64("scale", s.scorer.Scale()),
			)
		}
	}

	res, err := s.scorer.ScoreApplicants(ctx, r.Team, r.Applicants)
	if err != nil {
		return types.Report{}, fmt.Errorf("score applicants: %w", err)
	}

	s.metrics.UpdateInputShape(len(r.Team), len(r.Applicants), len(res.Mean))
	for _, sc := range res.Scores {
		s.metrics.RecordScore(sc.Score)
	}
	for range res.Clamped {
		s.metrics.RecordClamped()
	}
	log.Debug(ctx, "team mean computed",
		logger.Int("team_size", len(r.Team)),
		logger.Any("mean", res.Mean),
		logger.Int("clamped", res.Clamped),
	)

	return types.Report{ScoredApplicants: res.Scores}, nil
}

func (s *Service) flushMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsFile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		s.metrics.RecordError(stageMetrics)
		log.Warn(ctx, "failed to write metrics file", logger.String("path", s.metricsFile), logger.Error(err))
	}
}
