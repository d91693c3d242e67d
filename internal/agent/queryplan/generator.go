// internal/agent/queryplan/generator.go
package queryplan

import (
	"fmt"
	"strings"

	"storefront-insights/internal/models"
)

// Generator renders a classified intent into StoreQL text. The text is
// descriptive: execution routes on intent, but the query is validated,
// logged and returned in the response envelope.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the StoreQL statement for an intent and its plan.
func (g *Generator) Generate(intent models.Intent, plan models.Plan) string {
	var b strings.Builder

	b.WriteString("FROM ")
	b.WriteString(primarySource(plan))

	b.WriteString(" SHOW ")
	b.WriteString(projection(intent, plan))

	if group := grouping(plan); group != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(group)
	}

	if len(intent.Entities) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(entityFilter(intent.Entities))
	}

	b.WriteString(rangeClause(intent.TimePeriod))

	if order := ordering(intent, plan); order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}

	return b.String()
}

func primarySource(plan models.Plan) string {
	if len(plan.DataSources) == 0 {
		return "orders"
	}
	return plan.DataSources[0]
}

func projection(intent models.Intent, plan models.Plan) string {
	switch plan.AggregationType {
	case models.AggSumGroup:
		return "sum(quantity) AS total_sold, sum(total_price) AS revenue"
	case models.AggProjection:
		if intent.HasMetric(models.MetricStockoutPrediction) {
			return "quantity, avg_daily_sales, days_remaining"
		}
		return "sum(quantity) AS total_sold, avg_daily_sales"
	case models.AggCountGroup:
		return "count(order_id) AS order_count, sum(total_price) AS total_spent"
	default:
		return strings.Join(plan.RequiredFields, ", ")
	}
}

func grouping(plan models.Plan) string {
	switch plan.AggregationType {
	case models.AggSumGroup, models.AggProjection:
		return "product_id, product_title"
	case models.AggCountGroup:
		return "customer_id"
	default:
		return ""
	}
}

func entityFilter(entities []string) string {
	clauses := make([]string, 0, len(entities))
	for _, e := range entities {
		clauses = append(clauses, fmt.Sprintf("product_title CONTAINS '%s'", strings.ReplaceAll(e, "'", "''")))
	}
	return strings.Join(clauses, " OR ")
}

func rangeClause(w models.TimeWindow) string {
	if w.IsZero() {
		return ""
	}
	if w.Future {
		return fmt.Sprintf(" UNTIL +%dd", w.Value)
	}
	return fmt.Sprintf(" SINCE -%dd", w.Value)
}

func ordering(intent models.Intent, plan models.Plan) string {
	switch plan.AggregationType {
	case models.AggSumGroup:
		return "total_sold DESC"
	case models.AggCountGroup:
		return "order_count DESC"
	case models.AggProjection:
		if intent.HasMetric(models.MetricStockoutPrediction) {
			return "days_remaining ASC"
		}
	}
	return ""
}
