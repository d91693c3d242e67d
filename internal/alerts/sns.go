// internal/alerts/sns.go
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

var ErrAlertPublishFailed = errors.New("ALERT_PUBLISH_FAILED")

// snsAPI is the slice of the SNS client the publisher uses.
type snsAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher raises stockout alerts on an SNS topic. Publishing is best
// effort: a failed alert is logged and never affects the answer.
type Publisher struct {
	client   snsAPI
	topicARN string
	logger   logger.Logger
}

// NewPublisher builds a publisher for topicARN in region.
func NewPublisher(ctx context.Context, region, topicARN string, log logger.Logger) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Publisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   log.With(map[string]interface{}{"component": "stockout-alerts"}),
	}, nil
}

// NewPublisherWithClient injects a prebuilt client, used by tests.
func NewPublisherWithClient(client snsAPI, topicARN string, log logger.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topicARN: topicARN,
		logger:   log.With(map[string]interface{}{"component": "stockout-alerts"}),
	}
}

type stockoutAlert struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Stock       int     `json:"stock"`
	DaysLeft    float64 `json:"days_left"`
	Reorder     int     `json:"reorder_units"`
	DetectedAt  string  `json:"detected_at"`
}

// PublishStockouts sends one message per HIGH risk row. Medium tiers are
// answer-only and never page anyone.
func (p *Publisher) PublishStockouts(ctx context.Context, risks []models.RiskRow) error {
	var lastErr error
	for _, risk := range risks {
		if risk.Risk != models.RiskHigh {
			continue
		}

		payload, err := json.Marshal(stockoutAlert{
			ProductID:   risk.ProductID,
			ProductName: risk.ProductName,
			Stock:       risk.Stock,
			DaysLeft:    risk.DaysLeft,
			Reorder:     risk.ReorderUnits,
			DetectedAt:  time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			lastErr = err
			continue
		}

		_, err = p.client.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(p.topicARN),
			Subject:  aws.String(fmt.Sprintf("Stockout risk: %s", risk.ProductName)),
			Message:  aws.String(string(payload)),
		})
		if err != nil {
			p.logger.Warn("alert publish failed", map[string]interface{}{
				"product": risk.ProductName,
				"error":   err.Error(),
			})
			lastErr = err
			continue
		}

		p.logger.Info("stockout alert published", map[string]interface{}{
			"product":  risk.ProductName,
			"daysLeft": risk.DaysLeft,
		})
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrAlertPublishFailed, lastErr)
	}
	return nil
}
