// internal/analytics/risk_test.go
package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-insights/internal/models"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name          string
		daysRemaining float64
		expected      models.RiskLevel
	}{
		{
			name:          "runs out today",
			daysRemaining: 0,
			expected:      models.RiskHigh,
		},
		{
			name:          "exactly five days is high",
			daysRemaining: 5,
			expected:      models.RiskHigh,
		},
		{
			name:          "just over five days is medium",
			daysRemaining: 5.1,
			expected:      models.RiskMedium,
		},
		{
			name:          "exactly seven days is medium",
			daysRemaining: 7,
			expected:      models.RiskMedium,
		},
		{
			name:          "beyond horizon is low",
			daysRemaining: 7.5,
			expected:      models.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRisk(tt.daysRemaining))
		})
	}
}

func TestEstimateReorder(t *testing.T) {
	tests := []struct {
		name       string
		totalSold  int
		windowDays int
		expected   int
	}{
		{
			name:       "sixty units over thirty days",
			totalSold:  60,
			windowDays: 30,
			expected:   33, // 2.0/day * 14 * 1.2 = 33.6, floored
		},
		{
			name:       "fourteen units over seven days",
			totalSold:  14,
			windowDays: 7,
			expected:   33,
		},
		{
			name:       "no sales",
			totalSold:  0,
			windowDays: 30,
			expected:   0,
		},
		{
			name:       "zero window never divides",
			totalSold:  60,
			windowDays: 0,
			expected:   0,
		},
		{
			name:       "negative window treated as empty",
			totalSold:  60,
			windowDays: -5,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateReorder(tt.totalSold, tt.windowDays))
		})
	}
}

func TestReorderConfidence(t *testing.T) {
	assert.Equal(t, models.ConfidenceHigh, ReorderConfidence(30))
	assert.Equal(t, models.ConfidenceHigh, ReorderConfidence(90))
	assert.Equal(t, models.ConfidenceMedium, ReorderConfidence(29))
	assert.Equal(t, models.ConfidenceMedium, ReorderConfidence(7))
}
