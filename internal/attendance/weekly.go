package attendance

import (
	"context"
	"log/slog"
	"sort"

	"attendcli/pkg/contracts/domain"
)

// Aggregator rolls classification results into the weekly summary. It is
// the single source of truth for weekly statistics; the exporter and the
// calling layer both consume its output rather than recounting.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a weekly aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// GenerateFromResults reduces the full classification set for the
// reporting window into per-driver and fleet-wide counts. The reduction
// uses exact integer counters and computes rates only at read time, so
// recomputation from the same input set is byte-identical regardless of
// input order. Drivers are sorted by canonical key for stable output.
func (a *Aggregator) GenerateFromResults(ctx context.Context, results []domain.ClassificationResult) (domain.WeeklySummary, error) {
	a.logger.InfoContext(ctx, "aggregating weekly summary",
		slog.Int("result_count", len(results)))

	byDriver := make(map[string]*domain.DriverWeekly)
	var fleet domain.StatusCounts

	for _, result := range results {
		key := result.Driver.String()
		weekly, ok := byDriver[key]
		if !ok {
			weekly = &domain.DriverWeekly{Driver: result.Driver}
			byDriver[key] = weekly
		}
		weekly.Counts.Add(result.Status)
		fleet.Add(result.Status)
	}

	drivers := make([]domain.DriverWeekly, 0, len(byDriver))
	for _, weekly := range byDriver {
		drivers = append(drivers, *weekly)
	}
	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Driver.String() < drivers[j].Driver.String()
	})

	summary := domain.WeeklySummary{
		Drivers:     drivers,
		Fleet:       fleet,
		DriverCount: len(drivers),
	}

	a.logger.InfoContext(ctx, "weekly summary complete",
		slog.Int("driver_count", summary.DriverCount),
		slog.Float64("fleet_on_time_rate", summary.FleetOnTimeRate()))

	return summary, nil
}
