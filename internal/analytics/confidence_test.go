// internal/analytics/confidence_test.go
package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-insights/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		rowCount   int
		windowDays int
		expected   models.ConfidenceLevel
	}{
		{
			name:       "many rows over long window",
			rowCount:   5,
			windowDays: 30,
			expected:   models.ConfidenceHigh,
		},
		{
			name:       "many rows over short window",
			rowCount:   10,
			windowDays: 7,
			expected:   models.ConfidenceMedium,
		},
		{
			name:       "moderate rows over moderate window",
			rowCount:   3,
			windowDays: 7,
			expected:   models.ConfidenceMedium,
		},
		{
			name:       "few rows over long window",
			rowCount:   2,
			windowDays: 90,
			expected:   models.ConfidenceLow,
		},
		{
			name:       "no rows",
			rowCount:   0,
			windowDays: 30,
			expected:   models.ConfidenceLow,
		},
		{
			name:       "single day window",
			rowCount:   8,
			windowDays: 1,
			expected:   models.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.rowCount, tt.windowDays))
		})
	}
}

// Adding rows or widening the window never lowers the grade.
func TestScoreMonotonic(t *testing.T) {
	rank := map[models.ConfidenceLevel]int{
		models.ConfidenceLow:    0,
		models.ConfidenceMedium: 1,
		models.ConfidenceHigh:   2,
	}

	for rows := 0; rows <= 10; rows++ {
		for days := 0; days <= 60; days += 5 {
			base := rank[Score(rows, days)]
			assert.GreaterOrEqual(t, rank[Score(rows+1, days)], base)
			assert.GreaterOrEqual(t, rank[Score(rows, days+5)], base)
		}
	}
}
