package exporter

import (
	"fmt"
)

// formatFloat formats a rate with exactly 2 decimal places so 13.4
// appears as 13.40 in the report.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats a counter for CSV output.
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
