package domain

import (
	"time"
)

// JobSitePending is the upstream sentinel for "no job site assigned yet".
// A day carrying it is treated the same as a day with no job site at all.
const JobSitePending = "pending"

// DriverDay aggregates every canonical event for one driver on one calendar
// date. It is built once by the merge engine and never mutated afterwards.
type DriverDay struct {
	Driver        DriverKey  `json:"driver"`
	Date          time.Time  `json:"date"`
	FirstSeen     *time.Time `json:"first_seen,omitempty"`
	LastSeen      *time.Time `json:"last_seen,omitempty"`
	JobSite       string     `json:"job_site,omitempty"`
	HoursOnSite   float64    `json:"hours_on_site" validate:"min=0"`
	HoursExplicit bool       `json:"hours_explicit"`
	EventCount    int        `json:"event_count" validate:"min=1"`
}

// HasJobSite reports whether the day carries a usable job-site assignment.
func (d DriverDay) HasJobSite() bool {
	return d.JobSite != "" && d.JobSite != JobSitePending
}

// AttendanceStatus is the per-day classification outcome.
type AttendanceStatus string

const (
	StatusOnTime    AttendanceStatus = "on_time"
	StatusLateStart AttendanceStatus = "late_start"
	StatusEarlyEnd  AttendanceStatus = "early_end"
	StatusNotOnJob  AttendanceStatus = "not_on_job"
)

// AllStatuses lists every attendance status in reporting order.
var AllStatuses = []AttendanceStatus{
	StatusOnTime,
	StatusLateStart,
	StatusEarlyEnd,
	StatusNotOnJob,
}

// ReasonCode records which classification rule fired, for auditability.
type ReasonCode string

const (
	ReasonNoJobSite     ReasonCode = "no_job_site"
	ReasonArrivedAfter  ReasonCode = "arrived_after_cutoff"
	ReasonLeftBefore    ReasonCode = "left_before_cutoff"
	ReasonHoursBelowMin ReasonCode = "hours_below_minimum"
	ReasonWithinPolicy  ReasonCode = "within_policy"
)

// ClassificationResult is the per-driver, per-day attendance decision.
type ClassificationResult struct {
	Driver DriverKey        `json:"driver"`
	Date   time.Time        `json:"date"`
	Status AttendanceStatus `json:"status" validate:"required,oneof=on_time late_start early_end not_on_job"`
	Reason ReasonCode       `json:"reason" validate:"required"`
}
