package attendance

import (
	"time"

	"attendcli/pkg/contracts/domain"
)

// Policy carries the configurable attendance cutoffs. Cutoff comparisons
// are strict: arriving at exactly the late-start cutoff is not late.
type Policy struct {
	LateStartCutoff domain.ClockTime `validate:"min=0"`
	EarlyEndCutoff  domain.ClockTime `validate:"min=0"`
	MinimumHours    float64          `validate:"min=0"`
}

// DefaultPolicy returns the standard cutoffs: late after 07:30:00, early
// before 16:00:00, minimum 7.0 hours on site.
func DefaultPolicy() Policy {
	return Policy{
		LateStartCutoff: 7*time.Hour + 30*time.Minute,
		EarlyEndCutoff:  16 * time.Hour,
		MinimumHours:    7.0,
	}
}

// rule is one row of the classification decision table.
type rule struct {
	reason  domain.ReasonCode
	status  domain.AttendanceStatus
	matches func(domain.DriverDay, Policy) bool
}

// rules is the decision table, in priority order. The order is the
// contract: a driver with no job site is not_on_job even when the
// arrival and departure times look compliant, and the minimum-hours rule
// runs only after both time-window rules so a short logged day with
// compliant times still reports as early_end rather than a separate
// category.
var rules = []rule{
	{
		reason: domain.ReasonNoJobSite,
		status: domain.StatusNotOnJob,
		matches: func(day domain.DriverDay, _ Policy) bool {
			return !day.HasJobSite()
		},
	},
	{
		reason: domain.ReasonArrivedAfter,
		status: domain.StatusLateStart,
		matches: func(day domain.DriverDay, policy Policy) bool {
			return day.FirstSeen != nil && domain.TimeOfDay(*day.FirstSeen) > policy.LateStartCutoff
		},
	},
	{
		reason: domain.ReasonLeftBefore,
		status: domain.StatusEarlyEnd,
		matches: func(day domain.DriverDay, policy Policy) bool {
			return hasDeparture(day) && domain.TimeOfDay(*day.LastSeen) < policy.EarlyEndCutoff
		},
	},
	{
		reason: domain.ReasonHoursBelowMin,
		status: domain.StatusEarlyEnd,
		matches: func(day domain.DriverDay, policy Policy) bool {
			return hoursKnown(day) && day.HoursOnSite < policy.MinimumHours
		},
	},
}

// hasDeparture reports whether the day carries a departure observation
// distinct from the arrival. A single presence ping fixes the arrival
// time but proves nothing about when the driver left, so it never
// triggers the early-end rule on its own.
func hasDeparture(day domain.DriverDay) bool {
	if day.LastSeen == nil {
		return false
	}
	return day.FirstSeen == nil || day.LastSeen.After(*day.FirstSeen)
}

// hoursKnown reports whether the day carries a usable hours figure: either
// an explicit time-on-site value or one computable from both presence
// bounds.
func hoursKnown(day domain.DriverDay) bool {
	return day.HoursExplicit || (day.FirstSeen != nil && day.LastSeen != nil)
}

// Classify applies the decision table to one driver-day. The first
// matching rule wins and later rules are not consulted. Pure and
// deterministic: identical input always produces identical output.
func Classify(day domain.DriverDay, policy Policy) domain.ClassificationResult {
	result := domain.ClassificationResult{
		Driver: day.Driver,
		Date:   day.Date,
		Status: domain.StatusOnTime,
		Reason: domain.ReasonWithinPolicy,
	}

	for _, r := range rules {
		if r.matches(day, policy) {
			result.Status = r.status
			result.Reason = r.reason
			break
		}
	}

	return result
}

// ClassifyAll classifies every driver-day in order. An empty input yields
// an empty result set, which is a valid outcome.
func ClassifyAll(days []domain.DriverDay, policy Policy) []domain.ClassificationResult {
	results := make([]domain.ClassificationResult, 0, len(days))
	for _, day := range days {
		results = append(results, Classify(day, policy))
	}
	return results
}
