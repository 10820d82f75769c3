package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// headerScanLimit bounds how many leading rows are inspected while looking
// for the header row. Exports sometimes carry a title or filter banner
// above the real header.
const headerScanLimit = 10

// Window is the inclusive reporting window. Rows dated outside it are
// rejected, not errors.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls inside the window.
// A zero window accepts everything.
func (w Window) Contains(t time.Time) bool {
	if w.Start.IsZero() && w.End.IsZero() {
		return true
	}
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return !date.Before(w.Start) && !date.After(w.End)
}

// Timestamp layouts per source kind, in priority order. The first layout
// that parses wins.
var timestampLayouts = map[domain.SourceKind][]string{
	domain.SourceLocationHistory: {
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04:05 PM",
	},
	domain.SourceActivityLog: {
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
	},
	domain.SourceTimeOnSite: {
		"2006-01-02",
		"1/2/2006",
		"01/02/2006",
	},
	domain.SourceSpeeding: {
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"1/2/2006 15:04",
	},
}

// Loader turns one source file into canonical events. Loaders for distinct
// files are independent and safe to run concurrently; each call owns its
// own tally and touches no shared state.
type Loader struct {
	logger *slog.Logger
	window Window
}

// NewLoader creates a loader for the given reporting window.
func NewLoader(logger *slog.Logger, window Window) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, window: window}
}

// LoadFile parses one source file into canonical events in a single
// forward pass. Row-level failures are counted in the returned tally and
// skipped. The error return is reserved for file-level failures: unreadable
// input or a missing mandatory header (MissingRequiredFieldError).
func (l *Loader) LoadFile(ctx context.Context, kind domain.SourceKind, path string) ([]domain.CanonicalEvent, *domain.RejectionTally, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s source", kind), err).
			WithContext("path", path)
	}

	headerIdx, mapping, err := findHeader(kind, rows)
	if err != nil {
		return nil, nil, apperrors.NewSchemaError(fmt.Sprintf("cannot resolve schema for %s", kind), err).
			WithContext("path", path)
	}

	sourceFile := filepath.Base(path)
	tally := domain.NewRejectionTally(sourceFile, kind)
	headers := rows[headerIdx]
	eventKind := domain.EventKindForSource(kind)

	l.logger.InfoContext(ctx, "loading source file",
		slog.String("source_kind", string(kind)),
		slog.String("file", sourceFile),
		slog.Int("header_row", headerIdx),
		slog.Int("total_rows", len(rows)))

	var events []domain.CanonicalEvent
	for i := headerIdx + 1; i < len(rows); i++ {
		tally.Rows++
		row := domain.RawRow{Headers: headers, Cells: rows[i]}

		if rowEmpty(rows[i]) {
			tally.Reject(domain.RejectEmptyRow)
			continue
		}

		event, reason := l.convertRow(kind, eventKind, mapping, row, sourceFile)
		if reason != "" {
			tally.Reject(reason)
			continue
		}
		events = append(events, event)
	}

	l.logger.InfoContext(ctx, "source file loaded",
		slog.String("source_kind", string(kind)),
		slog.String("file", sourceFile),
		slog.Int("events", len(events)),
		slog.Int("rejected", tally.Rejected))

	return events, tally, nil
}

// convertRow normalizes one raw row. The returned reason is empty on
// success and a rejection reason otherwise.
func (l *Loader) convertRow(kind domain.SourceKind, eventKind domain.EventKind, mapping FieldMap, row domain.RawRow, sourceFile string) (domain.CanonicalEvent, string) {
	driver, err := ResolveIdentity(row.Cell(mapping[FieldDriverIdentifier]))
	if err != nil {
		return domain.CanonicalEvent{}, domain.RejectBadIdentity
	}

	var raw string
	if kind == domain.SourceTimeOnSite {
		raw = row.Cell(mapping[FieldDate])
	} else {
		raw = row.Cell(mapping[FieldTimestamp])
	}
	timestamp, ok := parseTimestamp(kind, raw)
	if !ok {
		return domain.CanonicalEvent{}, domain.RejectBadTimestamp
	}
	if !l.window.Contains(timestamp) {
		return domain.CanonicalEvent{}, domain.RejectOutsideWindow
	}

	event := domain.CanonicalEvent{
		Driver:     driver,
		Timestamp:  timestamp,
		Kind:       eventKind,
		SourceFile: sourceFile,
	}

	if mapping.Has(FieldJobSite) {
		event.JobSite = row.Cell(mapping[FieldJobSite])
	}

	if kind == domain.SourceTimeOnSite {
		hours, err := parseHours(row.Cell(mapping[FieldHoursOnSite]))
		if err != nil {
			return domain.CanonicalEvent{}, domain.RejectBadValue
		}
		event.HoursOnSite = hours
	}

	return event, ""
}

// findHeader locates the header row by trying to resolve the source schema
// against each of the first few rows. When none resolves, the error from
// the most promising attempt (the row matching the most fields) is
// returned so the operator sees which field is actually missing.
func findHeader(kind domain.SourceKind, rows [][]string) (int, FieldMap, error) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	var bestErr error
	for i := 0; i < limit; i++ {
		if rowEmpty(rows[i]) {
			continue
		}
		mapping, err := ResolveSchema(kind, rows[i])
		if err == nil {
			return i, mapping, nil
		}
		if bestErr == nil {
			bestErr = err
		}
	}

	if bestErr == nil {
		bestErr = &MissingRequiredFieldError{Source: kind, Field: FieldDriverIdentifier}
	}
	return 0, nil, bestErr
}

// parseTimestamp tries the declared layouts for the source kind in order.
func parseTimestamp(kind domain.SourceKind, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts[kind] {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseHours parses an hours-on-site cell. Exports occasionally format
// large values with thousands separators.
func parseHours(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty hours value")
	}
	hours, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if hours < 0 {
		return 0, fmt.Errorf("negative hours value %f", hours)
	}
	return hours, nil
}

func rowEmpty(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// readRows reads the raw cell grid from a tabular source file, dispatching
// on extension: .xlsx/.xls via excelize, .csv via encoding/csv.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcelRows(path)
	case ".csv":
		return readCSVRows(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// readExcelRows returns the rows of the first sheet that holds data.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}

	return nil, fmt.Errorf("no sheet with data in %s", filepath.Base(path))
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
