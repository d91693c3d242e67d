// internal/answer/synthesizer.go
package answer

import (
	"context"
	"fmt"
	"strings"

	"storefront-insights/internal/analytics"
	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/common/metrics"
	"storefront-insights/internal/models"
)

// Synthesizer renders typed query results into business-readable answers
// with a graded confidence. An optional enhancer may rewrite the text;
// it never touches the confidence and its failures never surface.
type Synthesizer struct {
	enhancer Enhancer
	logger   logger.Logger
}

// NewSynthesizer builds a synthesizer. enhancer may be nil.
func NewSynthesizer(enhancer Enhancer, log logger.Logger) *Synthesizer {
	return &Synthesizer{
		enhancer: enhancer,
		logger:   log.With(map[string]interface{}{"component": "answer-synthesizer"}),
	}
}

// Format produces the final answer for a question. The returned flag
// reports whether the enhancer rewrote the text.
func (s *Synthesizer) Format(ctx context.Context, question string, intent models.Intent, result models.StoreResult) (models.AnswerResult, bool) {
	var draft models.AnswerResult
	switch intent.Category {
	case models.CategorySales:
		draft = s.salesAnswer(intent, result)
	case models.CategoryInventory:
		draft = s.inventoryAnswer(intent, result)
	case models.CategoryCustomers:
		draft = s.customerAnswer(intent, result)
	default:
		draft = s.generalAnswer(result)
	}

	enhanced := false
	if s.enhancer != nil {
		summary := fmt.Sprintf("%d rows, category: %s, metrics: [%s]",
			result.RowCount(), intent.Category, strings.Join(intent.Metrics, ", "))
		enhancement := s.enhancer.Enhance(ctx, draft.Text, question, summary)
		if enhancement.Applied {
			draft.Text = enhancement.Text
			enhanced = true
			metrics.EnhancementOutcomes.WithLabelValues("enhanced").Inc()
		} else {
			s.logger.Debug("enhancement skipped", map[string]interface{}{"reason": enhancement.Reason})
			metrics.EnhancementOutcomes.WithLabelValues("skipped").Inc()
		}
	}

	metrics.AnswersByConfidence.WithLabelValues(string(draft.Confidence)).Inc()
	return draft, enhanced
}

func (s *Synthesizer) salesAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	if intent.HasMetric(models.MetricTopProducts) || intent.HasMetric(models.MetricTopSellers) {
		return topProductsAnswer(intent, result)
	}
	return salesSummaryAnswer(intent, result)
}

func topProductsAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	rows := result.ProductSales
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No sales data found for the specified period. This could mean no orders were placed during this time.",
			Confidence: models.ConfidenceLow,
		}
	}

	count := len(rows)
	if count > 5 {
		count = 5
		rows = rows[:5]
	}

	heading := fmt.Sprintf("Your top %d selling products", count)
	if intent.TimePeriod.IsZero() {
		heading += " were:\n"
	} else {
		heading += fmt.Sprintf(" %s were:\n", analytics.Phrase(intent.TimePeriod))
	}

	lines := []string{heading}
	var totalRevenue float64
	for i, row := range rows {
		lines = append(lines, fmt.Sprintf("%d. %s - %d units sold", i+1, row.ProductName, row.UnitsSold))
		totalRevenue += row.Revenue
	}
	if totalRevenue > 0 {
		lines = append(lines, fmt.Sprintf("\nTotal revenue from these products: $%s", money(totalRevenue, 2)))
	}

	return models.AnswerResult{
		Text:       strings.Join(lines, "\n"),
		Confidence: analytics.Score(len(rows), result.WindowDays),
	}
}

func salesSummaryAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	rows := result.Summary
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No sales data found for the specified period. This could mean no orders were placed during this time.",
			Confidence: models.ConfidenceLow,
		}
	}

	var totalOrders int
	var totalRevenue float64
	for _, row := range rows {
		totalOrders += row.Orders
		totalRevenue += row.Revenue
	}

	text := fmt.Sprintf("Sales summary %s:\n\n", analytics.Phrase(intent.TimePeriod))
	text += fmt.Sprintf("• Total orders: %d\n", totalOrders)
	text += fmt.Sprintf("• Total revenue: $%s\n", money(totalRevenue, 2))
	if totalOrders > 0 {
		text += fmt.Sprintf("• Average order value: $%s", money(totalRevenue/float64(totalOrders), 2))
	}

	confidence := models.ConfidenceMedium
	if totalOrders > 10 {
		confidence = models.ConfidenceHigh
	}
	return models.AnswerResult{Text: text, Confidence: confidence}
}

func (s *Synthesizer) inventoryAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	switch {
	case intent.HasMetric(models.MetricReorderQuantity):
		return reorderAnswer(intent, result)
	case intent.HasMetric(models.MetricStockoutPrediction):
		return stockoutAnswer(result)
	default:
		return inventoryStatusAnswer(result)
	}
}

func reorderAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	rows := result.Velocity
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No inventory data found for the specified products.",
			Confidence: models.ConfidenceLow,
		}
	}

	item := rows[0]
	productName := item.ProductName
	if len(intent.Entities) > 0 {
		productName = intent.Entities[0]
	}
	if productName == "" {
		productName = "the product"
	}

	days := intent.TimePeriod.DaysOr(30)
	var dailyRate float64
	if days > 0 {
		dailyRate = float64(item.UnitsSold) / float64(days)
	}
	recommended := analytics.EstimateReorder(item.UnitsSold, days)

	text := fmt.Sprintf("Based on the last %d days, %s sold an average of %.1f units per day (total: %d units).\n\n",
		days, productName, dailyRate, item.UnitsSold)
	text += fmt.Sprintf("Recommendation: Order at least %d units to maintain a 2-week buffer. "+
		"This accounts for your typical daily sales velocity and includes a 20%% safety margin.", recommended)

	return models.AnswerResult{Text: text, Confidence: analytics.ReorderConfidence(days)}
}

func stockoutAnswer(result models.StoreResult) models.AnswerResult {
	risks := result.Risks
	if len(risks) == 0 {
		return models.AnswerResult{
			Text:       "Good news! Based on recent sales velocity, none of your products are at risk of stockout in the next 7 days.",
			Confidence: models.ConfidenceHigh,
		}
	}

	plural, verb := "s", "are"
	if len(risks) == 1 {
		plural, verb = "", "is"
	}
	text := fmt.Sprintf("Based on recent sales velocity, %d product%s %s at risk of stockout within 7 days:\n\n",
		len(risks), plural, verb)

	var high, medium []models.RiskRow
	for _, r := range risks {
		if r.Risk == models.RiskHigh {
			high = append(high, r)
		} else {
			medium = append(medium, r)
		}
	}

	if len(high) > 0 {
		text += "⚠️ HIGH RISK:\n"
		for _, r := range high {
			text += riskLine(r)
		}
		text += "\n"
	}
	if len(medium) > 0 {
		text += "⚠️ MEDIUM RISK:\n"
		for _, r := range medium {
			text += riskLine(r)
		}
	}

	expedite := risks[0].ProductName
	if len(high) > 0 {
		expedite = high[0].ProductName
	}
	text += fmt.Sprintf("\nRecommendation: Prioritize reordering %s immediately.", expedite)

	return models.AnswerResult{Text: text, Confidence: models.ConfidenceMedium}
}

func riskLine(r models.RiskRow) string {
	return fmt.Sprintf("• %s - Current stock: %d units, Daily sales: %.1f units (runs out in ~%.0f days)\n",
		r.ProductName, r.Stock, r.DailyRate, r.DaysLeft)
}

func inventoryStatusAnswer(result models.StoreResult) models.AnswerResult {
	rows := result.Inventory
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No inventory data found for the specified products.",
			Confidence: models.ConfidenceLow,
		}
	}
	return models.AnswerResult{
		Text:       fmt.Sprintf("Found %d products in inventory. Current stock levels are available in the data.", len(rows)),
		Confidence: models.ConfidenceHigh,
	}
}

func (s *Synthesizer) customerAnswer(intent models.Intent, result models.StoreResult) models.AnswerResult {
	rows := result.Customers
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No customer data found for the specified period.",
			Confidence: models.ConfidenceLow,
		}
	}

	if intent.HasMetric(models.MetricRepeatCustomers) {
		return repeatCustomersAnswer(intent, rows)
	}
	return topCustomersAnswer(rows)
}

func repeatCustomersAnswer(intent models.Intent, rows []models.CustomerRow) models.AnswerResult {
	plural := "s"
	if len(rows) == 1 {
		plural = ""
	}
	text := fmt.Sprintf("You had %d repeat customer%s %s:\n\n", len(rows), plural, analytics.Phrase(intent.TimePeriod))
	text += "Top Repeat Customers:\n"

	listed := rows
	if len(listed) > 5 {
		listed = listed[:5]
	}
	for i, c := range listed {
		name := c.Name
		if name == "" {
			name = c.Email
		}
		if name == "" {
			name = "Unknown"
		}
		text += fmt.Sprintf("%d. %s", i+1, name)
		if c.Email != "" && c.Email != name {
			text += fmt.Sprintf(" (%s)", c.Email)
		}
		text += fmt.Sprintf(" - %d orders, $%s total\n", c.OrderCount, money(c.TotalSpent, 0))
	}

	text += fmt.Sprintf("\nThese %d customers represent a significant portion of your revenue. "+
		"Consider implementing a loyalty program to retain them!", len(rows))

	return models.AnswerResult{Text: text, Confidence: models.ConfidenceHigh}
}

func topCustomersAnswer(rows []models.CustomerRow) models.AnswerResult {
	listed := rows
	if len(listed) > 10 {
		listed = listed[:10]
	}

	text := fmt.Sprintf("Top %d customers by total spending:\n\n", len(listed))
	for i, c := range listed {
		email := c.Email
		if email == "" {
			email = "Unknown"
		}
		text += fmt.Sprintf("%d. %s - %d orders, $%s\n", i+1, email, c.OrderCount, money(c.TotalSpent, 0))
	}

	return models.AnswerResult{Text: text, Confidence: models.ConfidenceHigh}
}

func (s *Synthesizer) generalAnswer(result models.StoreResult) models.AnswerResult {
	rows := result.ProductSales
	if len(rows) == 0 {
		return models.AnswerResult{
			Text:       "No data found for your query.",
			Confidence: models.ConfidenceLow,
		}
	}

	listed := rows
	if len(listed) > 5 {
		listed = listed[:5]
	}

	text := fmt.Sprintf("Found %d results for your query. Here's a summary of the top items:\n\n", len(rows))
	for i, row := range listed {
		text += fmt.Sprintf("%d. %s", i+1, row.ProductName)
		if row.UnitsSold > 0 {
			text += fmt.Sprintf(" - %d units", row.UnitsSold)
		}
		if row.Revenue > 0 {
			text += fmt.Sprintf(" - $%s", money(row.Revenue, 2))
		}
		text += "\n"
	}

	return models.AnswerResult{Text: text, Confidence: models.ConfidenceMedium}
}
