// internal/models/intent_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindowDaysOr(t *testing.T) {
	tests := []struct {
		name     string
		window   TimeWindow
		expected int
	}{
		{"absent window takes default", TimeWindow{}, 30},
		{"explicit window", TimeWindow{Value: 14, Unit: "days"}, 14},
		{"explicit zero window stays zero", TimeWindow{Value: 0, Unit: "days", Present: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.window.DaysOr(30))
		})
	}
}

func TestTimeWindowUnmarshalPresence(t *testing.T) {
	var intent Intent
	require.NoError(t, json.Unmarshal([]byte(`{"category": "inventory", "time_period": {"value": 0, "unit": "days"}}`), &intent))
	assert.True(t, intent.TimePeriod.Present)
	assert.False(t, intent.TimePeriod.IsZero())
	assert.Equal(t, 0, intent.TimePeriod.DaysOr(30))

	intent = Intent{}
	require.NoError(t, json.Unmarshal([]byte(`{"category": "inventory"}`), &intent))
	assert.False(t, intent.TimePeriod.Present)
	assert.True(t, intent.TimePeriod.IsZero())

	intent = Intent{}
	require.NoError(t, json.Unmarshal([]byte(`{"category": "inventory", "time_period": null}`), &intent))
	assert.False(t, intent.TimePeriod.Present)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategorySales, NormalizeCategory("sales"))
	assert.Equal(t, CategoryGeneral, NormalizeCategory("weather"))
	assert.Equal(t, CategoryGeneral, NormalizeCategory(""))
}
