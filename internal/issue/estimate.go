package issue

import (
	"strconv"
	"strings"
)

// Jira work calendar: 5 days per week, 8 hours per day.
const (
	minutesPerHour = 60
	minutesPerDay  = 8 * minutesPerHour
	minutesPerWeek = 5 * minutesPerDay
)

// FormatEstimate converts fractional hours into Jira duration notation, e.g. 1.5 -> "1h 30m".
// Fractional minutes are truncated. Anything below one minute yields "1h".
func FormatEstimate(hours float64) string {
	total := int(hours * minutesPerHour)
	if total <= 0 {
		return "1h"
	}

	parts := []struct {
		value  int
		suffix string
	}{
		{total / minutesPerWeek, "w"},
		{total % minutesPerWeek / minutesPerDay, "d"},
		{total % minutesPerDay / minutesPerHour, "h"},
		{total % minutesPerHour, "m"},
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.value > 0 {
			out = append(out, strconv.Itoa(p.value)+p.suffix)
		}
	}
	return strings.Join(out, " ")
}
