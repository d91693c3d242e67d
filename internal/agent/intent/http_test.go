// internal/agent/intent/http_test.go
package intent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

func newTestClassifier(t *testing.T, serverURL string, retries int) *HTTPClassifier {
	t.Helper()
	c, err := NewHTTPClassifier(HTTPConfig{
		BaseURL:    serverURL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: retries,
	}, logger.NewNoOpLogger())
	require.NoError(t, err)
	return c
}

func TestHTTPClassifierSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/parse-intent", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"category": "sales",
			"metrics": ["top_products"],
			"time_period": {"value": 7, "unit": "days"},
			"entities": ["Yoga Mat Pro"]
		}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, 0)

	intent, err := classifier.Classify(context.Background(), "top products last week")
	require.NoError(t, err)

	assert.Equal(t, models.CategorySales, intent.Category)
	assert.Equal(t, []string{"top_products"}, intent.Metrics)
	assert.Equal(t, 7, intent.TimePeriod.Value)
	assert.True(t, intent.TimePeriod.Present)
	assert.Equal(t, []string{"Yoga Mat Pro"}, intent.Entities)
}

func TestHTTPClassifierZeroWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"category": "inventory",
			"metrics": ["reorder_quantity"],
			"time_period": {"value": 0, "unit": "days"}
		}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, 0)

	intent, err := classifier.Classify(context.Background(), "reorder for today only")
	require.NoError(t, err)

	// An explicit zero-length window survives the decode instead of reading
	// as absent.
	assert.True(t, intent.TimePeriod.Present)
	assert.Equal(t, 0, intent.TimePeriod.DaysOr(30))
}

func TestHTTPClassifierNormalizesUnknownCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"category": "weather"}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, 0)

	intent, err := classifier.Classify(context.Background(), "will it rain")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGeneral, intent.Category)
	assert.False(t, intent.TimePeriod.Present)
}

func TestHTTPClassifierRejectsMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing category",
			body: `{"metrics": ["top_products"]}`,
		},
		{
			name: "wrong metrics type",
			body: `{"category": "sales", "metrics": "top_products"}`,
		},
		{
			name: "negative window",
			body: `{"category": "sales", "time_period": {"value": -3}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			classifier := newTestClassifier(t, server.URL, 0)

			_, err := classifier.Classify(context.Background(), "anything")
			assert.ErrorIs(t, err, ErrInvalidIntentPayload)
		})
	}
}

func TestHTTPClassifierRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"category": "customers", "metrics": ["repeat_customers"]}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, 2)

	intent, err := classifier.Classify(context.Background(), "repeat customers")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, models.CategoryCustomers, intent.Category)
}

func TestHTTPClassifierExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, 1)

	_, err := classifier.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrClassificationFailed)
}

func TestHTTPClassifierTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"category": "sales"}`))
	}))
	defer server.Close()

	classifier, err := NewHTTPClassifier(HTTPConfig{
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		MaxRetries: 0,
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, err = classifier.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrIntentAPITimeout)
}
