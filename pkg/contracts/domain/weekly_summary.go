package domain

// StatusCounts holds exact integer counters per attendance status. Rates
// are derived at reporting time only, so recomputation from the same input
// is byte-identical regardless of accumulation order.
type StatusCounts struct {
	OnTime    int `json:"on_time"`
	LateStart int `json:"late_start"`
	EarlyEnd  int `json:"early_end"`
	NotOnJob  int `json:"not_on_job"`
}

// Add counts one classification result.
func (c *StatusCounts) Add(status AttendanceStatus) {
	switch status {
	case StatusOnTime:
		c.OnTime++
	case StatusLateStart:
		c.LateStart++
	case StatusEarlyEnd:
		c.EarlyEnd++
	case StatusNotOnJob:
		c.NotOnJob++
	}
}

// Total returns the number of classified days behind the counters.
func (c StatusCounts) Total() int {
	return c.OnTime + c.LateStart + c.EarlyEnd + c.NotOnJob
}

// Count returns the counter for one status.
func (c StatusCounts) Count(status AttendanceStatus) int {
	switch status {
	case StatusOnTime:
		return c.OnTime
	case StatusLateStart:
		return c.LateStart
	case StatusEarlyEnd:
		return c.EarlyEnd
	case StatusNotOnJob:
		return c.NotOnJob
	default:
		return 0
	}
}

// Rate returns the share of days with the given status, in percent.
func (c StatusCounts) Rate(status AttendanceStatus) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Count(status)) / float64(total) * 100
}

// DriverWeekly is one driver's attendance breakdown over the reporting
// window.
type DriverWeekly struct {
	Driver DriverKey    `json:"driver"`
	Counts StatusCounts `json:"counts"`
}

// OnTimeRate returns the driver's on-time percentage.
func (w DriverWeekly) OnTimeRate() float64 {
	return w.Counts.Rate(StatusOnTime)
}

// WeeklySummary rolls all classification results for the reporting window
// into per-driver and fleet-wide statistics. It is derived data, recomputed
// on demand and never independently mutated.
type WeeklySummary struct {
	Drivers     []DriverWeekly `json:"drivers"`
	Fleet       StatusCounts   `json:"fleet"`
	DriverCount int            `json:"driver_count"`
}

// FleetOnTimeRate returns the fleet-wide on-time percentage.
func (s WeeklySummary) FleetOnTimeRate() float64 {
	return s.Fleet.Rate(StatusOnTime)
}
