package domain

import (
	"strings"
	"time"
)

// SourceKind identifies one of the telematics exports the pipeline accepts.
type SourceKind string

const (
	SourceLocationHistory SourceKind = "location_history"
	SourceActivityLog     SourceKind = "activity_log"
	SourceTimeOnSite      SourceKind = "time_on_site"
	SourceSpeeding        SourceKind = "speeding"
)

// AllSourceKinds lists the accepted source kinds in processing order.
var AllSourceKinds = []SourceKind{
	SourceLocationHistory,
	SourceActivityLog,
	SourceTimeOnSite,
	SourceSpeeding,
}

// EventKind classifies a canonical event by the observation it represents.
type EventKind string

const (
	EventLocation   EventKind = "location"
	EventActivity   EventKind = "activity"
	EventTimeOnSite EventKind = "time_on_site"
	EventSpeeding   EventKind = "speeding"
)

// EventKindForSource maps a source kind to the event kind its rows produce.
func EventKindForSource(kind SourceKind) EventKind {
	switch kind {
	case SourceLocationHistory:
		return EventLocation
	case SourceActivityLog:
		return EventActivity
	case SourceTimeOnSite:
		return EventTimeOnSite
	case SourceSpeeding:
		return EventSpeeding
	default:
		return EventKind(kind)
	}
}

// RawRow is one row of one source file before normalization: the header
// strings the file actually used paired with that row's cell values. It is
// discarded once the loader has produced a CanonicalEvent from it.
type RawRow struct {
	Headers []string
	Cells   []string
}

// Cell returns the trimmed value under the given source-native header, or
// the empty string when the row is short or the header is absent.
func (r RawRow) Cell(header string) string {
	for i, h := range r.Headers {
		if h == header {
			if i < len(r.Cells) {
				return strings.TrimSpace(r.Cells[i])
			}
			return ""
		}
	}
	return ""
}

// CanonicalEvent is one normalized observation. Events are passed by value
// and never mutated after the loader creates them.
type CanonicalEvent struct {
	Driver      DriverKey `json:"driver"`
	Timestamp   time.Time `json:"timestamp"`
	JobSite     string    `json:"job_site,omitempty"`
	Kind        EventKind `json:"kind" validate:"required"`
	HoursOnSite float64   `json:"hours_on_site,omitempty" validate:"min=0"`
	SourceFile  string    `json:"source_file"`
}

// Date returns the calendar date of the event in its own location.
func (e CanonicalEvent) Date() time.Time {
	y, m, d := e.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Timestamp.Location())
}

// Rejection reasons tracked per file while loading.
const (
	RejectBadIdentity   = "unresolvable_identity"
	RejectBadTimestamp  = "bad_timestamp"
	RejectOutsideWindow = "outside_window"
	RejectEmptyRow      = "empty_row"
	RejectBadValue      = "bad_value"
)

// RejectionTally accumulates row-level rejections for one source file.
// Rejections are warnings surfaced next to successful output, never a
// reason to abort the file.
type RejectionTally struct {
	SourceFile string         `json:"source_file"`
	Kind       SourceKind     `json:"source_kind"`
	Rows       int            `json:"rows"`
	Rejected   int            `json:"rejected"`
	Reasons    map[string]int `json:"reasons,omitempty"`
}

// NewRejectionTally creates an empty tally for a source file.
func NewRejectionTally(file string, kind SourceKind) *RejectionTally {
	return &RejectionTally{
		SourceFile: file,
		Kind:       kind,
		Reasons:    make(map[string]int),
	}
}

// Reject counts one skipped row under the given reason.
func (t *RejectionTally) Reject(reason string) {
	t.Rejected++
	t.Reasons[reason]++
}

// TopReason returns the most common rejection reason, ties broken
// alphabetically so reporting stays deterministic.
func (t *RejectionTally) TopReason() string {
	top, topCount := "", 0
	for reason, count := range t.Reasons {
		if count > topCount || (count == topCount && top != "" && reason < top) {
			top, topCount = reason, count
		}
	}
	return top
}
