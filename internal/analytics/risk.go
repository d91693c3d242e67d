// internal/analytics/risk.go
package analytics

import (
	"math"

	"storefront-insights/internal/models"
)

// Reorder policy constants. A two week buffer with a 20% safety margin
// keeps fast movers in stock between purchase cycles.
const (
	reorderBufferDays   = 14
	reorderSafetyFactor = 1.2

	highRiskDays   = 5.0
	mediumRiskDays = 7.0
)

// ClassifyRisk tiers a product by projected days of stock remaining.
func ClassifyRisk(daysRemaining float64) models.RiskLevel {
	switch {
	case daysRemaining <= highRiskDays:
		return models.RiskHigh
	case daysRemaining <= mediumRiskDays:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// EstimateReorder recommends an order quantity from observed demand.
// Returns 0 when the observation window is empty, never an error.
func EstimateReorder(totalSold int, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	dailyRate := float64(totalSold) / float64(windowDays)
	return int(math.Floor(dailyRate * reorderBufferDays * reorderSafetyFactor))
}

// ReorderConfidence grades a reorder estimate by its observation span.
func ReorderConfidence(windowDays int) models.ConfidenceLevel {
	if windowDays >= 30 {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}
