// internal/analytics/confidence.go
package analytics

import "storefront-insights/internal/models"

// Score grades how well a result set supports an answer. More rows over a
// longer window means more confidence; the function is monotonic in both
// inputs.
func Score(rowCount, windowDays int) models.ConfidenceLevel {
	if rowCount >= 5 && windowDays >= 30 {
		return models.ConfidenceHigh
	}
	if rowCount >= 3 && windowDays >= 7 {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}
