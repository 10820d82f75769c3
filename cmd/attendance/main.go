package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"attendcli/internal/attendance"
	"attendcli/internal/config"
	"attendcli/internal/dataprocessing"
	"attendcli/internal/exporter"
	"attendcli/internal/files"
	"attendcli/internal/infrastructure"
	"attendcli/internal/operations"
	"attendcli/internal/validation"
	"attendcli/pkg/contracts"
	"attendcli/pkg/contracts/domain"
)

func main() {
	locationPath := flag.String("location", "", "location history export (file or directory)")
	activityPath := flag.String("activity", "", "activity log export (file or directory)")
	timeOnSitePath := flag.String("timeonsite", "", "time-on-site export (file or directory)")
	speedingPath := flag.String("speeding", "", "speeding report (file or directory)")
	fromDate := flag.String("from", "", "reporting window start date (YYYY-MM-DD)")
	toDate := flag.String("to", "", "reporting window end date (YYYY-MM-DD)")
	outDir := flag.String("out", "", "output directory for reports")
	lateCutoff := flag.String("late-cutoff", "", "late start cutoff (HH:MM:SS)")
	earlyCutoff := flag.String("early-cutoff", "", "early end cutoff (HH:MM:SS)")
	minHours := flag.Float64("min-hours", -1, "minimum hours on site")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	applyFlags(cfg, *locationPath, *activityPath, *timeOnSitePath, *speedingPath,
		*fromDate, *toDate, *outDir, *lateCutoff, *earlyCutoff, *minHours)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Warn("Failed to initialize tracing, continuing without it",
			slog.String("error", err.Error()))
	} else {
		defer providers.Shutdown(ctx)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Attendance run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overlays command-line values onto the loaded configuration.
// Flags win over both the config file and the environment.
func applyFlags(cfg *config.Config, location, activity, timeOnSite, speeding,
	from, to, out, late, early string, minHours float64) {
	if location != "" {
		cfg.Sources.LocationHistory = location
	}
	if activity != "" {
		cfg.Sources.ActivityLog = activity
	}
	if timeOnSite != "" {
		cfg.Sources.TimeOnSite = timeOnSite
	}
	if speeding != "" {
		cfg.Sources.Speeding = speeding
	}
	if from != "" {
		cfg.Window.Start = from
	}
	if to != "" {
		cfg.Window.End = to
	}
	if out != "" {
		cfg.Output.Dir = out
	}
	if late != "" {
		cfg.Policy.LateStartCutoff = late
	}
	if early != "" {
		cfg.Policy.EarlyEndCutoff = early
	}
	if minHours >= 0 {
		cfg.Policy.MinimumHours = minHours
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	window, err := buildWindow(cfg.Window)
	if err != nil {
		return err
	}

	policy, err := buildPolicy(cfg.Policy)
	if err != nil {
		return err
	}

	logger.Info("Starting attendance reconciliation",
		slog.String("window_start", cfg.Window.Start),
		slog.String("window_end", cfg.Window.End),
		slog.String("output_dir", cfg.Output.Dir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(cfg.Output.Dir); err != nil {
		return err
	}

	sources, err := collectSources(cfg.Sources, validator, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d source files\n", sources.FileCount())

	loader := dataprocessing.NewLoader(logger, window)
	pipeline := operations.NewPipeline(logger,
		operations.NewLoadStep(loader, sources, logger),
		operations.NewMergeStep(logger),
		operations.NewClassifyStep(policy, logger),
		operations.NewSummarizeStep(attendance.NewAggregator(logger)),
	)

	state, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	reportRejections(state.GetTallies(), logger)

	summary := state.GetSummary()
	fmt.Printf("Classified %d driver-days across %d drivers\n",
		len(state.GetResults()), summary.DriverCount)

	writer := exporter.NewCSVWriter(cfg.Output.Dir, logger)
	if err := writer.WriteDailyReport(state.GetResults()); err != nil {
		return fmt.Errorf("failed to write daily report: %w", err)
	}
	if err := writer.WriteWeeklyReport(*summary); err != nil {
		return fmt.Errorf("failed to write weekly report: %w", err)
	}
	if err := writer.WriteWeeklyJSON(*summary); err != nil {
		return fmt.Errorf("failed to write weekly summary JSON: %w", err)
	}
	if err := writer.WriteRejectionReport(state.GetTallies()); err != nil {
		return fmt.Errorf("failed to write rejection report: %w", err)
	}

	logger.Info("Attendance run complete",
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()),
		slog.Float64("fleet_on_time_rate", summary.FleetOnTimeRate()))
	fmt.Printf("Reports written to %s\n", cfg.Output.Dir)
	fmt.Println("All sources processed")

	return nil
}

// buildWindow converts the configured window dates into the loader's
// inclusive window. An unset window accepts every dated row.
func buildWindow(cfg config.WindowConfig) (dataprocessing.Window, error) {
	if cfg.Start == "" && cfg.End == "" {
		return dataprocessing.Window{}, nil
	}

	start, err := cfg.StartDate()
	if err != nil {
		return dataprocessing.Window{}, fmt.Errorf("invalid window start %q: %w", cfg.Start, err)
	}
	end, err := cfg.EndDate()
	if err != nil {
		return dataprocessing.Window{}, fmt.Errorf("invalid window end %q: %w", cfg.End, err)
	}

	return dataprocessing.Window{Start: start, End: end}, nil
}

// buildPolicy converts the configured cutoff strings into the classifier
// policy.
func buildPolicy(cfg config.PolicyConfig) (attendance.Policy, error) {
	late, err := domain.ParseClock(cfg.LateStartCutoff)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid late start cutoff %q: %w", cfg.LateStartCutoff, err)
	}
	early, err := domain.ParseClock(cfg.EarlyEndCutoff)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid early end cutoff %q: %w", cfg.EarlyEndCutoff, err)
	}

	return attendance.Policy{
		LateStartCutoff: late,
		EarlyEndCutoff:  early,
		MinimumHours:    cfg.MinimumHours,
	}, nil
}

// collectSources expands each configured source path into concrete files
// and validates them. A source kind with no configured path is skipped.
func collectSources(cfg config.SourcesConfig, validator *validation.FileValidator, logger *slog.Logger) (operations.SourceSet, error) {
	discovery := files.NewDiscovery("")
	sources := make(operations.SourceSet)

	for _, kind := range domain.AllSourceKinds {
		path := cfg.Path(kind)
		if path == "" {
			logger.Info("Source not configured, skipping",
				slog.String("source_kind", string(kind)))
			continue
		}

		found, err := discovery.ExpandSource(path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", kind, err)
		}
		paths := files.Paths(found)
		if err := validator.ValidateSourceFiles(paths); err != nil {
			return nil, fmt.Errorf("source %s: %w", kind, err)
		}

		sources[kind] = paths
		logger.Info("Source files discovered",
			slog.String("source_kind", string(kind)),
			slog.Int("count", len(paths)))
	}

	return sources, nil
}

// reportRejections surfaces the per-file skip counts next to the normal
// output so silently dropped rows stay visible.
func reportRejections(tallies []*domain.RejectionTally, logger *slog.Logger) {
	for _, tally := range tallies {
		if tally.Rejected == 0 {
			continue
		}
		logger.Warn("Rows rejected while loading",
			slog.String("file", tally.SourceFile),
			slog.String("source_kind", string(tally.Kind)),
			slog.Int("rows", tally.Rows),
			slog.Int("rejected", tally.Rejected),
			slog.String("top_reason", tally.TopReason()))
		fmt.Printf("Warning: %d of %d rows rejected in %s (%s)\n",
			tally.Rejected, tally.Rows, tally.SourceFile, tally.TopReason())
	}
}
