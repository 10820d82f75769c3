package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/pkg/contracts/domain"
)

func readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteDailyReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	results := []domain.ClassificationResult{
		{
			Driver: domain.DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
			Date:   time.Date(2025, 7, 14, 0, 0, 0, 0, time.Local),
			Status: domain.StatusOnTime,
			Reason: domain.ReasonWithinPolicy,
		},
		{
			Driver: domain.DriverKey{EmployeeID: "210003", DisplayName: "Elhamad, Ammar"},
			Date:   time.Date(2025, 7, 14, 0, 0, 0, 0, time.Local),
			Status: domain.StatusLateStart,
			Reason: domain.ReasonArrivedAfter,
		},
	}

	require.NoError(t, writer.WriteDailyReport(results))

	content := readReport(t, filepath.Join(dir, DailyReportFile))
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM")
	assert.Contains(t, content, "EmployeeID,Driver,Date,Status,Reason")
	assert.Contains(t, content, `210013,"Shaylor, Matthew C",2025-07-14,on_time,within_policy`)
	assert.Contains(t, content, `210003,"Elhamad, Ammar",2025-07-14,late_start,arrived_after_cutoff`)
}

func TestWriteWeeklyReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	summary := domain.WeeklySummary{
		Drivers: []domain.DriverWeekly{
			{
				Driver: domain.DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
				Counts: domain.StatusCounts{OnTime: 3, LateStart: 1},
			},
		},
		Fleet:       domain.StatusCounts{OnTime: 3, LateStart: 1},
		DriverCount: 1,
	}

	require.NoError(t, writer.WriteWeeklyReport(summary))

	content := readReport(t, filepath.Join(dir, WeeklyReportFile))
	assert.Contains(t, content, "EmployeeID,Driver,OnTime,LateStart,EarlyEnd,NotOnJob,Days,OnTimeRate")
	assert.Contains(t, content, `210013,"Shaylor, Matthew C",3,1,0,0,4,75.00`)
	assert.Contains(t, content, ",FLEET,3,1,0,0,4,75.00")
}

func TestWriteWeeklyJSON(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	summary := domain.WeeklySummary{
		Drivers: []domain.DriverWeekly{
			{
				Driver: domain.DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
				Counts: domain.StatusCounts{OnTime: 2},
			},
		},
		Fleet:       domain.StatusCounts{OnTime: 2},
		DriverCount: 1,
	}

	require.NoError(t, writer.WriteWeeklyJSON(summary))

	data, err := os.ReadFile(filepath.Join(dir, WeeklyJSONFile))
	require.NoError(t, err)

	var decoded struct {
		GeneratedAt time.Time             `json:"generated_at"`
		Drivers     []domain.DriverWeekly `json:"drivers"`
		Fleet       domain.StatusCounts   `json:"fleet"`
		DriverCount int                   `json:"driver_count"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.GeneratedAt.IsZero())
	assert.Equal(t, 1, decoded.DriverCount)
	require.Len(t, decoded.Drivers, 1)
	assert.Equal(t, "210013", decoded.Drivers[0].Driver.EmployeeID)
	assert.Equal(t, 2, decoded.Fleet.OnTime)
}

func TestWriteRejectionReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	tally := domain.NewRejectionTally("location.csv", domain.SourceLocationHistory)
	tally.Rows = 10
	tally.Reject(domain.RejectBadTimestamp)
	tally.Reject(domain.RejectBadTimestamp)
	tally.Reject(domain.RejectEmptyRow)

	require.NoError(t, writer.WriteRejectionReport([]*domain.RejectionTally{tally}))

	content := readReport(t, filepath.Join(dir, RejectionsFile))
	assert.Contains(t, content, "SourceFile,SourceKind,Rows,Rejected,TopReason")
	assert.Contains(t, content, "location.csv,location_history,10,3,bad_timestamp")
}

func TestWriteCSVCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(filepath.Join(dir, "reports", "week29"), nil)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	assert.FileExists(t, filepath.Join(dir, "reports", "week29", "out.csv"))
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	content := readReport(t, filepath.Join(dir, "stream.csv"))
	assert.Contains(t, content, "A,B")
	assert.Contains(t, content, "1,2")
	assert.Contains(t, content, "3,4")
}
