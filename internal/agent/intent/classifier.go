// internal/agent/intent/classifier.go
package intent

import (
	"context"
	"errors"

	"storefront-insights/internal/models"
)

var (
	ErrClassificationFailed = errors.New("CLASSIFICATION_FAILED")
	ErrIntentAPITimeout     = errors.New("INTENT_API_TIMEOUT")
	ErrInvalidIntentPayload = errors.New("INVALID_INTENT_PAYLOAD")
)

// Classifier turns a natural-language question into a structured intent.
type Classifier interface {
	Classify(ctx context.Context, question string) (models.Intent, error)
}
