package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/internal/attendance"
	"attendcli/internal/dataprocessing"
	"attendcli/pkg/contracts/domain"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func weekWindow() dataprocessing.Window {
	return dataprocessing.Window{
		Start: time.Date(2025, 7, 14, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, 7, 18, 0, 0, 0, 0, time.Local),
	}
}

func newTestPipeline(sources SourceSet) *Pipeline {
	loader := dataprocessing.NewLoader(nil, weekWindow())
	return NewPipeline(nil,
		NewLoadStep(loader, sources, nil),
		NewMergeStep(nil),
		NewClassifyStep(attendance.DefaultPolicy(), nil),
		NewSummarizeStep(attendance.NewAggregator(nil)),
	)
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	location := writeSource(t, dir, "location.csv",
		"Driver,EventDateTime,Location\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14 07:10:00,Depot North\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14 16:45:00,Depot North\n"+
			"\"Elhamad, Ammar (210003)\",2025-07-14 08:15:00,Depot South\n"+
			"\"Elhamad, Ammar (210003)\",2025-07-14 16:30:00,Depot South\n")
	timeOnSite := writeSource(t, dir, "timeonsite.csv",
		"Driver,Date,Hours On Site,Site\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14,9.5,Depot North\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
		domain.SourceTimeOnSite:      {timeOnSite},
	})

	state, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, state.Status)

	days := state.GetDays()
	require.Len(t, days, 2)

	results := state.GetResults()
	require.Len(t, results, 2)

	byID := map[string]domain.ClassificationResult{}
	for _, r := range results {
		byID[r.Driver.EmployeeID] = r
	}

	// Shaylor arrived 07:10 and left 16:45 with explicit hours above the
	// minimum.
	assert.Equal(t, domain.StatusOnTime, byID["210013"].Status)
	assert.Equal(t, domain.ReasonWithinPolicy, byID["210013"].Reason)

	// Elhamad arrived after the 07:30 cutoff.
	assert.Equal(t, domain.StatusLateStart, byID["210003"].Status)
	assert.Equal(t, domain.ReasonArrivedAfter, byID["210003"].Reason)

	summary := state.GetSummary()
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.DriverCount)
	assert.Equal(t, 1, summary.Fleet.OnTime)
	assert.Equal(t, 1, summary.Fleet.LateStart)

	for _, step := range []string{StepIDLoad, StepIDMerge, StepIDClassify, StepIDSummarize} {
		assert.Equal(t, StepStatusCompleted, state.GetStep(step).CurrentStatus(), step)
	}
}

func TestPipelineSinglePingWithExplicitHours(t *testing.T) {
	dir := t.TempDir()
	location := writeSource(t, dir, "location.csv",
		"Driver,EventDateTime,Location\n"+
			"\"210013 - Shaylor, Matthew C\",2025-07-14 06:45:00,Site A\n")
	timeOnSite := writeSource(t, dir, "timeonsite.csv",
		"Driver,Date,Hours On Site,Site\n"+
			"\"210013 - Shaylor, Matthew C\",2025-07-14,8.2,Site A\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
		domain.SourceTimeOnSite:      {timeOnSite},
	})

	state, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	days := state.GetDays()
	require.Len(t, days, 1)
	assert.Equal(t, "Site A", days[0].JobSite)
	assert.True(t, days[0].HoursExplicit)
	assert.InDelta(t, 8.2, days[0].HoursOnSite, 0.001)

	// The lone 06:45 ping fixes the arrival but is no evidence of an
	// early departure; the explicit stint covers the minimum.
	results := state.GetResults()
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusOnTime, results[0].Status)
	assert.Equal(t, domain.ReasonWithinPolicy, results[0].Reason)
}

func TestPipelineNoJobSiteDays(t *testing.T) {
	dir := t.TempDir()
	location := writeSource(t, dir, "location.csv",
		"Driver,EventDateTime,Location\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14 07:00:00,pending\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14 16:30:00,pending\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
	})

	state, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	results := state.GetResults()
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusNotOnJob, results[0].Status)
	assert.Equal(t, domain.ReasonNoJobSite, results[0].Reason)
}

func TestPipelineEmptySources(t *testing.T) {
	dir := t.TempDir()
	// Header only, no data rows.
	location := writeSource(t, dir, "location.csv", "Driver,EventDateTime,Location\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
	})

	state, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, state.Status)
	assert.Empty(t, state.GetDays())
	assert.Empty(t, state.GetResults())

	summary := state.GetSummary()
	require.NotNil(t, summary)
	assert.Zero(t, summary.DriverCount)
}

func TestPipelineNoSourcesConfigured(t *testing.T) {
	pipeline := newTestPipeline(SourceSet{})

	state, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, OperationStatusFailed, state.Status)
	assert.Equal(t, StepStatusFailed, state.GetStep(StepIDLoad).CurrentStatus())
}

func TestPipelineSpeedingOnlyIsRejected(t *testing.T) {
	dir := t.TempDir()
	speeding := writeSource(t, dir, "speeding.csv",
		"Driver,EventDateTime\n\"Shaylor, Matthew C (210013)\",2025-07-14 09:00:00\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceSpeeding: {speeding},
	})

	state, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, OperationStatusFailed, state.Status)
	assert.Equal(t, StepStatusFailed, state.GetStep(StepIDLoad).CurrentStatus())
}

func TestPipelineFatalLoadError(t *testing.T) {
	dir := t.TempDir()
	// Missing the mandatory timestamp column.
	location := writeSource(t, dir, "location.csv",
		"Driver,Location\n\"Shaylor, Matthew C (210013)\",Depot North\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
	})

	state, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, OperationStatusFailed, state.Status)
	assert.True(t, state.HasFailures())

	var missing *dataprocessing.MissingRequiredFieldError
	assert.True(t, errors.As(err, &missing))

	// Later steps never ran.
	assert.Equal(t, StepStatusPending, state.GetStep(StepIDMerge).CurrentStatus())
}

func TestPipelineRejectionTallies(t *testing.T) {
	dir := t.TempDir()
	location := writeSource(t, dir, "location.csv",
		"Driver,EventDateTime,Location\n"+
			"\"Shaylor, Matthew C (210013)\",2025-07-14 07:00:00,Depot North\n"+
			"\"Shaylor, Matthew C (210013)\",garbled,Depot North\n")

	pipeline := newTestPipeline(SourceSet{
		domain.SourceLocationHistory: {location},
	})

	state, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	tallies := state.GetTallies()
	require.Len(t, tallies, 1)
	assert.Equal(t, 2, tallies[0].Rows)
	assert.Equal(t, 1, tallies[0].Rejected)
	assert.Equal(t, domain.RejectBadTimestamp, tallies[0].TopReason())
}

func TestSourceSetFileCount(t *testing.T) {
	assert.Zero(t, SourceSet{}.FileCount())
	set := SourceSet{
		domain.SourceLocationHistory: {"a.csv", "b.csv"},
		domain.SourceSpeeding:        {"c.csv"},
	}
	assert.Equal(t, 3, set.FileCount())
	assert.True(t, set.HasClassifiable())
	assert.False(t, SourceSet{domain.SourceSpeeding: {"c.csv"}}.HasClassifiable())
}
