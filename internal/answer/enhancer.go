// internal/answer/enhancer.go
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-insights/internal/common/logger"
)

var (
	ErrEnhancerTimeout = errors.New("ENHANCER_TIMEOUT")
	ErrEnhancerFailed  = errors.New("ENHANCER_FAILED")
)

// Enhancement is the outcome of an enhancement attempt. A skipped
// enhancement is a normal result, not an error: the draft answer stands.
type Enhancement struct {
	Applied bool
	Text    string
	Reason  string
}

// Enhancer rewrites a draft answer into better business language.
type Enhancer interface {
	Enhance(ctx context.Context, draft, question, dataSummary string) Enhancement
}

// HTTPConfig holds the enhancer endpoint settings.
type HTTPConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// HTTPEnhancer calls the GenAI generate endpoint. Every failure mode
// collapses into a skipped Enhancement.
type HTTPEnhancer struct {
	config HTTPConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTPEnhancer(cfg HTTPConfig, log logger.Logger) *HTTPEnhancer {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	return &HTTPEnhancer{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(map[string]interface{}{"component": "answer-enhancer"}),
	}
}

func (e *HTTPEnhancer) Enhance(ctx context.Context, draft, question, dataSummary string) Enhancement {
	text, err := e.generate(ctx, draft, question, dataSummary)
	if err != nil {
		e.logger.Debug("enhancement skipped", map[string]interface{}{"reason": err.Error()})
		return Enhancement{Reason: err.Error()}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Enhancement{Reason: "empty enhancement response"}
	}
	return Enhancement{Applied: true, Text: text}
}

func (e *HTTPEnhancer) generate(ctx context.Context, draft, question, dataSummary string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite this answer to the question %q in clear business language without changing any numbers.\nData: %s\nAnswer: %s",
		question, dataSummary, draft,
	)
	requestBody := map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  e.config.MaxTokens,
		"temperature": e.config.Temperature,
	}
	body, _ := json.Marshal(requestBody)

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrEnhancerTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+"/api/ai/generate", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEnhancerFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if e.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
		}

		resp, err := e.client.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return "", ErrEnhancerTimeout
		}
		if err != nil {
			lastErr = err
			continue
		}

		var apiResponse struct {
			Text string `json:"text"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&apiResponse)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if decodeErr != nil {
			lastErr = decodeErr
			continue
		}
		return apiResponse.Text, nil
	}

	return "", fmt.Errorf("%w: %v", ErrEnhancerFailed, lastErr)
}
