// internal/analytics/window.go
package analytics

import (
	"fmt"
	"time"

	"storefront-insights/internal/models"
)

// Cutoff returns the inclusive start of a trailing window ending at now.
// An absent window falls back to defDays.
func Cutoff(now time.Time, w models.TimeWindow, defDays int) time.Time {
	days := w.DaysOr(defDays)
	return now.AddDate(0, 0, -days)
}

// Phrase renders a time window for display in answers.
func Phrase(w models.TimeWindow) string {
	if w.IsZero() {
		return "recently"
	}

	unit := w.Unit
	if unit == "" {
		unit = "days"
	}

	if w.Future {
		switch w.Value {
		case 7:
			return "next week"
		case 30:
			return "next month"
		default:
			return fmt.Sprintf("in the next %d %s", w.Value, unit)
		}
	}

	switch {
	case w.Value == 1 && unit == "days":
		return "yesterday"
	case w.Value == 7:
		return "last week"
	case w.Value == 30:
		return "last month"
	default:
		return fmt.Sprintf("in the last %d %s", w.Value, unit)
	}
}
