package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"attendcli/pkg/contracts/domain"
)

// Report file names produced under the output directory.
const (
	DailyReportFile  = "attendance_daily.csv"
	WeeklyReportFile = "attendance_weekly.csv"
	WeeklyJSONFile   = "attendance_weekly.json"
	RejectionsFile   = "rejected_rows.csv"

	reportDateLayout = "2006-01-02"
)

// WriteDailyReport streams the per-day classification results to CSV,
// one row per driver-day in the order the classifier produced them.
func (w *CSVWriter) WriteDailyReport(results []domain.ClassificationResult) error {
	stream, err := w.CreateStreamWriter(DailyReportFile, []string{
		"EmployeeID", "Driver", "Date", "Status", "Reason",
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		record := []string{
			result.Driver.EmployeeID,
			result.Driver.DisplayName,
			result.Date.Format(reportDateLayout),
			string(result.Status),
			string(result.Reason),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write daily record: %w", err)
		}
	}

	return stream.Close()
}

// WriteWeeklyReport writes the per-driver weekly breakdown plus a fleet
// total row.
func (w *CSVWriter) WriteWeeklyReport(summary domain.WeeklySummary) error {
	headers := []string{
		"EmployeeID", "Driver", "OnTime", "LateStart", "EarlyEnd", "NotOnJob", "Days", "OnTimeRate",
	}

	records := make([][]string, 0, len(summary.Drivers)+1)
	for _, driver := range summary.Drivers {
		records = append(records, []string{
			driver.Driver.EmployeeID,
			driver.Driver.DisplayName,
			formatInt(driver.Counts.OnTime),
			formatInt(driver.Counts.LateStart),
			formatInt(driver.Counts.EarlyEnd),
			formatInt(driver.Counts.NotOnJob),
			formatInt(driver.Counts.Total()),
			formatFloat(driver.OnTimeRate()),
		})
	}
	records = append(records, []string{
		"",
		"FLEET",
		formatInt(summary.Fleet.OnTime),
		formatInt(summary.Fleet.LateStart),
		formatInt(summary.Fleet.EarlyEnd),
		formatInt(summary.Fleet.NotOnJob),
		formatInt(summary.Fleet.Total()),
		formatFloat(summary.FleetOnTimeRate()),
	})

	return w.WriteSimpleCSV(WeeklyReportFile, headers, records)
}

// WriteWeeklyJSON writes the weekly summary as indented JSON for
// downstream tooling.
func (w *CSVWriter) WriteWeeklyJSON(summary domain.WeeklySummary) error {
	fullPath := w.resolvePath(WeeklyJSONFile)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	payload := struct {
		GeneratedAt time.Time `json:"generated_at"`
		domain.WeeklySummary
	}{
		GeneratedAt:   time.Now(),
		WeeklySummary: summary,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	return os.WriteFile(fullPath, data, 0o644)
}

// WriteRejectionReport writes the per-file rejection tallies so rejected
// rows stay visible next to the reports built from the accepted ones.
func (w *CSVWriter) WriteRejectionReport(tallies []*domain.RejectionTally) error {
	headers := []string{"SourceFile", "SourceKind", "Rows", "Rejected", "TopReason"}

	records := make([][]string, 0, len(tallies))
	for _, tally := range tallies {
		records = append(records, []string{
			tally.SourceFile,
			string(tally.Kind),
			formatInt(tally.Rows),
			formatInt(tally.Rejected),
			tally.TopReason(),
		})
	}

	return w.WriteSimpleCSV(RejectionsFile, headers, records)
}
