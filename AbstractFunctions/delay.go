package AbstractFunctions

import (
	"fmt"
	"time"
)

// ComputeDelay compares the planned deadline with the completion time of a
// completed task, or with now for an open one.
func ComputeDelay(planned, actual *time.Time, completed bool, now time.Time) (bool, time.Duration) {
	if planned == nil {
		return false, 0
	}

	reference := now
	if completed {
		if actual == nil {
			return false, 0
		}
		reference = *actual
	}

	d := reference.Sub(*planned)
	if d <= 0 {
		return false, 0
	}
	return true, d
}

func splitDuration(d time.Duration) (days, hours, minutes int) {
	total := int(d / time.Minute)
	days = total / (24 * 60)
	hours = (total % (24 * 60)) / 60
	minutes = total % 60
	return
}

// FormatDelay renders a delay as "N days, N hours, N minutes"
func FormatDelay(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	days, hours, minutes := splitDuration(d)
	return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
}

// FormatDelayShort renders a delay as "Nd Nh Nm"
func FormatDelayShort(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	days, hours, minutes := splitDuration(d)
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
