// internal/analytics/window_test.go
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-insights/internal/models"
)

func TestPhrase(t *testing.T) {
	tests := []struct {
		name     string
		window   models.TimeWindow
		expected string
	}{
		{
			name:     "absent window",
			window:   models.TimeWindow{},
			expected: "recently",
		},
		{
			name:     "yesterday",
			window:   models.TimeWindow{Value: 1, Unit: "days"},
			expected: "yesterday",
		},
		{
			name:     "last week",
			window:   models.TimeWindow{Value: 7, Unit: "days"},
			expected: "last week",
		},
		{
			name:     "last month",
			window:   models.TimeWindow{Value: 30, Unit: "days"},
			expected: "last month",
		},
		{
			name:     "arbitrary trailing window",
			window:   models.TimeWindow{Value: 14, Unit: "days"},
			expected: "in the last 14 days",
		},
		{
			name:     "next week",
			window:   models.TimeWindow{Value: 7, Unit: "days", Future: true},
			expected: "next week",
		},
		{
			name:     "next month",
			window:   models.TimeWindow{Value: 30, Unit: "days", Future: true},
			expected: "next month",
		},
		{
			name:     "arbitrary future window",
			window:   models.TimeWindow{Value: 10, Unit: "days", Future: true},
			expected: "in the next 10 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phrase(tt.window))
		})
	}
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got := Cutoff(now, models.TimeWindow{Value: 7, Unit: "days"}, 30)
	assert.Equal(t, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC), got)

	// Absent window uses the caller's default.
	got = Cutoff(now, models.TimeWindow{}, 30)
	assert.Equal(t, time.Date(2024, 5, 16, 12, 0, 0, 0, time.UTC), got)
}
