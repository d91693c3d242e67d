// internal/agent/intent/http.go
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

// intentSchema rejects malformed classifier payloads before they reach the
// pipeline. The category value itself is normalized, not validated, so a
// new upstream category degrades to general instead of failing.
const intentSchema = `{
	"type": "object",
	"required": ["category"],
	"properties": {
		"category": {"type": "string", "minLength": 1},
		"metrics": {"type": "array", "items": {"type": "string"}},
		"time_period": {
			"type": "object",
			"properties": {
				"value": {"type": "integer", "minimum": 0},
				"unit": {"type": "string"},
				"future": {"type": "boolean"}
			}
		},
		"entities": {"type": "array", "items": {"type": "string"}}
	}
}`

// HTTPConfig holds the classifier endpoint settings.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPClassifier calls the GenAI intent endpoint with bounded retries.
type HTTPClassifier struct {
	config HTTPConfig
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

// NewHTTPClassifier builds a classifier against cfg.BaseURL. The response
// schema is compiled once here.
func NewHTTPClassifier(cfg HTTPConfig, log logger.Logger) (*HTTPClassifier, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(intentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile intent schema: %w", err)
	}
	return &HTTPClassifier{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		logger: log.With(map[string]interface{}{"component": "intent-classifier"}),
	}, nil
}

func (c *HTTPClassifier) Classify(ctx context.Context, question string) (models.Intent, error) {
	body, _ := json.Marshal(map[string]interface{}{"query": question})

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	raw, err := c.post(ctx, "/api/ai/parse-intent", body)
	if err != nil {
		return models.Intent{}, err
	}

	payload := gojsonschema.NewBytesLoader(raw)
	result, err := c.schema.Validate(payload)
	if err != nil {
		return models.Intent{}, fmt.Errorf("%w: %v", ErrInvalidIntentPayload, err)
	}
	if !result.Valid() {
		c.logger.Warn("classifier payload rejected", map[string]interface{}{
			"errors": fmt.Sprintf("%v", result.Errors()),
		})
		return models.Intent{}, fmt.Errorf("%w: %v", ErrInvalidIntentPayload, result.Errors())
	}

	var decoded struct {
		Category   string            `json:"category"`
		Metrics    []string          `json:"metrics"`
		TimePeriod models.TimeWindow `json:"time_period"`
		Entities   []string          `json:"entities"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return models.Intent{}, fmt.Errorf("%w: decode error: %v", ErrClassificationFailed, err)
	}

	return models.Intent{
		Category:   models.NormalizeCategory(decoded.Category),
		Metrics:    decoded.Metrics,
		TimePeriod: decoded.TimePeriod,
		Entities:   decoded.Entities,
	}, nil
}

func (c *HTTPClassifier) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrIntentAPITimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, err := c.client.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrIntentAPITimeout
		}
		if err != nil {
			lastErr = err
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return raw, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, lastErr)
}
