package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"attendcli/internal/attendance"
	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/infrastructure"
	"attendcli/pkg/contracts/domain"
)

// Step IDs, in pipeline order.
const (
	StepIDLoad      = "load"
	StepIDMerge     = "merge"
	StepIDClassify  = "classify"
	StepIDSummarize = "summarize"
)

// SourceSet maps each source kind to the files configured for it. Kinds
// with no files are simply absent from the run.
type SourceSet map[domain.SourceKind][]string

// FileCount returns the total number of configured source files.
func (s SourceSet) FileCount() int {
	n := 0
	for _, paths := range s {
		n += len(paths)
	}
	return n
}

// HasClassifiable reports whether the set contains at least one source
// that can drive classification. Speeding events alone cannot: they
// carry no presence bounds and no hours.
func (s SourceSet) HasClassifiable() bool {
	for _, kind := range []domain.SourceKind{
		domain.SourceLocationHistory,
		domain.SourceActivityLog,
		domain.SourceTimeOnSite,
	} {
		if len(s[kind]) > 0 {
			return true
		}
	}
	return false
}

// LoadStep reads every configured source file into canonical events.
// Files are independent, so they load concurrently; a file-level failure
// in any of them fails the step.
type LoadStep struct {
	BaseStep
	loader  *dataprocessing.Loader
	sources SourceSet
	logger  *slog.Logger
}

// NewLoadStep creates the load step for the given source set.
func NewLoadStep(loader *dataprocessing.Loader, sources SourceSet, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, "Load Source Files"),
		loader:   loader,
		sources:  sources,
		logger:   logger,
	}
}

// Validate requires at least one source file that can drive
// classification.
func (s *LoadStep) Validate(state *OperationState) error {
	if s.sources.FileCount() == 0 {
		return apperrors.NewAppValidationError("no source files configured")
	}
	if !s.sources.HasClassifiable() {
		return apperrors.NewAppValidationError(
			"at least one location history, activity log or time on site source is required")
	}
	return nil
}

// Execute loads all configured files concurrently and stores the merged
// event union plus the per-file rejection tallies.
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	var mu sync.Mutex
	var events []domain.CanonicalEvent
	var tallies []*domain.RejectionTally

	g, gctx := errgroup.WithContext(ctx)
	for kind, paths := range s.sources {
		for _, path := range paths {
			kind, path := kind, path
			g.Go(func() error {
				fileEvents, tally, err := s.loader.LoadFile(gctx, kind, path)
				if err != nil {
					return err
				}
				mu.Lock()
				events = append(events, fileEvents...)
				tallies = append(tallies, tally)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	state.SetEvents(events, tallies)

	rejected := 0
	for _, tally := range tallies {
		rejected += tally.Rejected
	}
	s.logger.InfoContext(ctx, "all sources loaded",
		slog.Int("files", len(tallies)),
		slog.Int("events", len(events)),
		slog.Int("rejected_rows", rejected))
	infrastructure.AddSpanEvent(ctx, "sources.loaded", map[string]interface{}{
		"files":         len(tallies),
		"events":        len(events),
		"rejected_rows": rejected,
	})

	return nil
}

// MergeStep groups the loaded events into driver-days.
type MergeStep struct {
	BaseStep
	logger *slog.Logger
}

// NewMergeStep creates the merge step.
func NewMergeStep(logger *slog.Logger) *MergeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MergeStep{
		BaseStep: NewBaseStep(StepIDMerge, "Merge Driver Days"),
		logger:   logger,
	}
}

// Execute merges the event union into the driver-day set. An empty event
// set yields an empty day set, not an error.
func (s *MergeStep) Execute(ctx context.Context, state *OperationState) error {
	days := dataprocessing.Merge(state.GetEvents())
	state.SetDays(days)

	s.logger.InfoContext(ctx, "events merged",
		slog.Int("events", len(state.GetEvents())),
		slog.Int("driver_days", len(days)))

	return nil
}

// ClassifyStep applies the attendance policy to every driver-day.
type ClassifyStep struct {
	BaseStep
	policy attendance.Policy
	logger *slog.Logger
}

// NewClassifyStep creates the classify step with the given policy.
func NewClassifyStep(policy attendance.Policy, logger *slog.Logger) *ClassifyStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyStep{
		BaseStep: NewBaseStep(StepIDClassify, "Classify Attendance"),
		policy:   policy,
		logger:   logger,
	}
}

// Validate rejects a nonsensical policy before any day is classified.
func (s *ClassifyStep) Validate(state *OperationState) error {
	if s.policy.LateStartCutoff < 0 || s.policy.EarlyEndCutoff < 0 || s.policy.MinimumHours < 0 {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("invalid attendance policy %+v", s.policy))
	}
	return nil
}

// Execute classifies all driver-days.
func (s *ClassifyStep) Execute(ctx context.Context, state *OperationState) error {
	results := attendance.ClassifyAll(state.GetDays(), s.policy)
	state.SetResults(results)

	counts := domain.StatusCounts{}
	for _, result := range results {
		counts.Add(result.Status)
	}
	s.logger.InfoContext(ctx, "driver days classified",
		slog.Int("total", counts.Total()),
		slog.Int("on_time", counts.OnTime),
		slog.Int("late_start", counts.LateStart),
		slog.Int("early_end", counts.EarlyEnd),
		slog.Int("not_on_job", counts.NotOnJob))
	infrastructure.AddSpanEvent(ctx, "days.classified", map[string]interface{}{
		"total":      counts.Total(),
		"on_time":    counts.OnTime,
		"late_start": counts.LateStart,
		"early_end":  counts.EarlyEnd,
		"not_on_job": counts.NotOnJob,
	})

	return nil
}

// SummarizeStep rolls the classification results into the weekly summary.
type SummarizeStep struct {
	BaseStep
	aggregator *attendance.Aggregator
}

// NewSummarizeStep creates the summarize step.
func NewSummarizeStep(aggregator *attendance.Aggregator) *SummarizeStep {
	return &SummarizeStep{
		BaseStep:   NewBaseStep(StepIDSummarize, "Weekly Summary"),
		aggregator: aggregator,
	}
}

// Execute builds the weekly summary from the classification results.
func (s *SummarizeStep) Execute(ctx context.Context, state *OperationState) error {
	summary, err := s.aggregator.GenerateFromResults(ctx, state.GetResults())
	if err != nil {
		return err
	}
	state.SetSummary(&summary)
	return nil
}
