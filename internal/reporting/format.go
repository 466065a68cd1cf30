package reporting

import "fmt"

// FormatDuration renders a second count as "D days, H hours, M minutes,
// S seconds" using floor division. Negative inputs clamp to zero.
func FormatDuration(totalSeconds float64) string {
	secs := int64(totalSeconds)
	if secs < 0 {
		secs = 0
	}

	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", days, hours, minutes, seconds)
}
