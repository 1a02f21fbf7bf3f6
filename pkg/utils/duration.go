package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders d coarsely for humans, dropping everything below minutes.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "Past due"
	}
	if d < time.Minute {
		return "less than a minute"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%s, %s", plural(days, "day"), plural(hours, "hour"))
	}
	if hours > 0 {
		return fmt.Sprintf("%s, %s", plural(hours, "hour"), plural(minutes, "minute"))
	}
	return plural(minutes, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
