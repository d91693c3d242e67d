// internal/agent/intent/rule.go
package intent

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"storefront-insights/internal/models"
)

var (
	lastNDaysRe = regexp.MustCompile(`last (\d+) days?`)
	nextNDaysRe = regexp.MustCompile(`next (\d+) days?`)
)

// RuleClassifier is a deterministic keyword classifier. It backs the mock
// mode and serves as fallback when the HTTP classifier is unavailable.
// Never returns an error: anything it cannot place lands in general.
type RuleClassifier struct {
	vocabulary []string
}

// NewRuleClassifier builds a classifier. vocabulary is an optional list of
// known product names used for entity extraction.
func NewRuleClassifier(vocabulary []string) *RuleClassifier {
	return &RuleClassifier{vocabulary: vocabulary}
}

func (c *RuleClassifier) Classify(_ context.Context, question string) (models.Intent, error) {
	q := strings.ToLower(question)

	return models.Intent{
		Category:   categoryOf(q),
		Metrics:    metricsOf(q),
		TimePeriod: windowOf(q),
		Entities:   c.entitiesOf(q),
	}, nil
}

func categoryOf(q string) models.Category {
	switch {
	case containsAny(q, "stock", "inventory", "reorder", "restock", "run out", "stockout"):
		return models.CategoryInventory
	case containsAny(q, "customer", "buyer", "shopper", "repeat", "loyal"):
		return models.CategoryCustomers
	case containsAny(q, "sell", "sold", "sales", "revenue", "top product", "best product", "best seller"):
		return models.CategorySales
	default:
		return models.CategoryGeneral
	}
}

func metricsOf(q string) []string {
	var metrics []string
	if containsAny(q, "top", "best") && containsAny(q, "product", "seller", "item") {
		metrics = append(metrics, models.MetricTopProducts)
	}
	if containsAny(q, "reorder", "restock", "how much should i order", "how many should i order") {
		metrics = append(metrics, models.MetricReorderQuantity)
	}
	if containsAny(q, "run out", "stockout", "stock out") {
		metrics = append(metrics, models.MetricStockoutPrediction)
	}
	if containsAny(q, "repeat", "returning", "came back") {
		metrics = append(metrics, models.MetricRepeatCustomers)
	}
	return metrics
}

func windowOf(q string) models.TimeWindow {
	if m := lastNDaysRe.FindStringSubmatch(q); m != nil {
		value, _ := strconv.Atoi(m[1])
		return models.TimeWindow{Value: value, Unit: "days", Present: true}
	}
	if m := nextNDaysRe.FindStringSubmatch(q); m != nil {
		value, _ := strconv.Atoi(m[1])
		return models.TimeWindow{Value: value, Unit: "days", Future: true, Present: true}
	}
	switch {
	case strings.Contains(q, "yesterday"):
		return models.TimeWindow{Value: 1, Unit: "days", Present: true}
	case strings.Contains(q, "last week"), strings.Contains(q, "past week"):
		return models.TimeWindow{Value: 7, Unit: "days", Present: true}
	case strings.Contains(q, "last month"), strings.Contains(q, "past month"):
		return models.TimeWindow{Value: 30, Unit: "days", Present: true}
	case strings.Contains(q, "next week"):
		return models.TimeWindow{Value: 7, Unit: "days", Future: true, Present: true}
	case strings.Contains(q, "next month"):
		return models.TimeWindow{Value: 30, Unit: "days", Future: true, Present: true}
	}
	return models.TimeWindow{}
}

// entitiesOf matches known product names against the question. A product
// matches when the question contains the full name or any word of it
// longer than three characters.
func (c *RuleClassifier) entitiesOf(q string) []string {
	var entities []string
	for _, name := range c.vocabulary {
		lower := strings.ToLower(name)
		if strings.Contains(q, lower) {
			entities = append(entities, name)
			continue
		}
		for _, word := range strings.Fields(lower) {
			if len(word) > 3 && strings.Contains(q, word) {
				entities = append(entities, name)
				break
			}
		}
	}
	return entities
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
