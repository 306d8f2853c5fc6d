package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	app "github.com/okian/teamfit/internal/app"
	"github.com/okian/teamfit/internal/config"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/pkg/logger"
)

// Flag names.
const (
	flagConfig      = "config"
	flagScale       = "scale"
	flagPrecision   = "precision"
	flagNoClamp     = "no-clamp"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagMetricsFile = "metrics-file"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teamfit <input.json>",
		Short: "Score applicants against a team's average attribute profile",
		Long: `teamfit reads a JSON document with a "team" and an "applicants" list,
computes the team's mean attribute vector and scores every applicant by its
Euclidean distance to that mean, normalized to [0,1] (1 is a perfect match).
The report is written to stdout as {"scoredApplicants": [...]}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Past argument validation: failures are logged, not followed by usage.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return run(cmd, args[0], stdout, stderr)
		},
	}
	// Usage goes to stderr by default, keeping stdout for the report.
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.String(flagConfig, "", "YAML config file (overrides $"+config.EnvConfigPath+")")
	flags.Float64(flagScale, 0, "upper bound of attribute values (default 10)")
	flags.Int(flagPrecision, 0, "decimals each score is rounded to (default 1)")
	flags.Bool(flagNoClamp, false, "keep scores outside [0,1] instead of clamping")
	flags.String(flagLogLevel, "", "log level: debug, info, warn, error")
	flags.String(flagLogFormat, "", "log format: text or json")
	flags.String(flagMetricsFile, "", "write run metrics to this file in Prometheus text format")

	return cmd
}

func run(cmd *cobra.Command, inputPath string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	if err := logger.InitWithWriter(stderr, logger.FormatText); err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		return err
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		logger.Get().Error(ctx, "invalid flags", logger.Error(err))
		return err
	}

	if err := logger.InitWithWriter(stderr, cfg.LogFormat); err != nil {
		logger.Get().Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithScorer(scoring.New(
			scoring.WithScale(cfg.Scale),
			scoring.WithPrecision(cfg.Precision),
			scoring.WithClamp(cfg.ClampScores),
		)),
		app.WithMetricsFile(cfg.MetricsFile),
	)

	_, err = svc.Run(ctx, inputPath, stdout)
	return err
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	if flags.Changed(flagScale) {
		if cfg.Scale, err = flags.GetFloat64(flagScale); err != nil {
			return err
		}
	}
	if flags.Changed(flagPrecision) {
		if cfg.Precision, err = flags.GetInt(flagPrecision); err != nil {
			return err
		}
	}
	if flags.Changed(flagNoClamp) {
		noClamp, err := flags.GetBool(flagNoClamp)
		if err != nil {
			return err
		}
		cfg.ClampScores = !noClamp
	}
	if flags.Changed(flagLogLevel) {
		cfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}
	if flags.Changed(flagLogFormat) {
		cfg.LogFormat, _ = flags.GetString(flagLogFormat)
	}
	if flags.Changed(flagMetricsFile) {
		cfg.MetricsFile, _ = flags.GetString(flagMetricsFile)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("after flags: %w", err)
	}
	return nil
}
