package domain

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as the offset from local midnight.
// Attendance cutoffs and first/last-seen comparisons all work in this
// representation so calendar dates and DST shifts never leak into the
// decision logic.
type ClockTime = time.Duration

// ParseClock parses an "HH:MM:SS" (or "HH:MM") wall-clock string.
func ParseClock(s string) (ClockTime, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q: expected HH:MM[:SS]", s)
		}
		sec = 0
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid clock time %q: component out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// TimeOfDay returns the wall-clock offset of t from its own midnight.
func TimeOfDay(t time.Time) ClockTime {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// FormatClock renders a ClockTime as "HH:MM:SS".
func FormatClock(c ClockTime) string {
	h := int(c / time.Hour)
	m := int(c % time.Hour / time.Minute)
	s := int(c % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
