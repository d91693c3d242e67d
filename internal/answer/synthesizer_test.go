// internal/answer/synthesizer_test.go
package answer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

func newSynthesizer() *Synthesizer {
	return NewSynthesizer(nil, logger.NewNoOpLogger())
}

func TestTopProductsAnswer(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategorySales,
		Metrics:    []string{models.MetricTopProducts},
		TimePeriod: models.TimeWindow{Value: 7, Unit: "days"},
	}
	result := models.StoreResult{
		Kind: models.ResultProductSales,
		ProductSales: []models.ProductSalesRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", UnitsSold: 12, Revenue: 599.88},
			{ProductID: "p2", ProductName: "Bamboo Sunglasses", UnitsSold: 8, Revenue: 479.92},
			{ProductID: "p3", ProductName: "Smart Watch Series 5", UnitsSold: 5, Revenue: 1499.95},
		},
		WindowDays: 7,
	}

	answer, enhanced := newSynthesizer().Format(context.Background(), "top products?", intent, result)

	assert.False(t, enhanced)
	assert.Contains(t, answer.Text, "Your top 3 selling products last week were:")
	assert.Contains(t, answer.Text, "1. Yoga Mat Pro - 12 units sold")
	assert.Contains(t, answer.Text, "3. Smart Watch Series 5 - 5 units sold")
	assert.Contains(t, answer.Text, "Total revenue from these products: $2,579.75")

	// 3 rows over 7 days.
	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestTopProductsAnswerNoData(t *testing.T) {
	intent := models.Intent{Category: models.CategorySales, Metrics: []string{models.MetricTopProducts}}
	result := models.StoreResult{Kind: models.ResultProductSales, WindowDays: 7}

	answer, _ := newSynthesizer().Format(context.Background(), "top products?", intent, result)

	assert.Equal(t, "No sales data found for the specified period. This could mean no orders were placed during this time.", answer.Text)
	assert.Equal(t, models.ConfidenceLow, answer.Confidence)
}

func TestSalesSummaryAnswer(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategorySales,
		TimePeriod: models.TimeWindow{Value: 30, Unit: "days"},
	}
	result := models.StoreResult{
		Kind: models.ResultDailySummary,
		Summary: []models.DailySummaryRow{
			{Date: "2024-06-14", Orders: 8, Units: 12, Revenue: 400},
			{Date: "2024-06-13", Orders: 6, Units: 9, Revenue: 350},
		},
		WindowDays: 30,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "how were sales?", intent, result)

	assert.Contains(t, answer.Text, "Sales summary last month:")
	assert.Contains(t, answer.Text, "• Total orders: 14")
	assert.Contains(t, answer.Text, "• Total revenue: $750.00")
	assert.Contains(t, answer.Text, "• Average order value: $53.57")
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestSalesSummaryFewOrders(t *testing.T) {
	intent := models.Intent{Category: models.CategorySales}
	result := models.StoreResult{
		Kind:       models.ResultDailySummary,
		Summary:    []models.DailySummaryRow{{Date: "2024-06-14", Orders: 3, Units: 4, Revenue: 120}},
		WindowDays: 7,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "how were sales?", intent, result)

	assert.Contains(t, answer.Text, "Sales summary recently:")
	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestReorderAnswer(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategoryInventory,
		Metrics:    []string{models.MetricReorderQuantity},
		Entities:   []string{"Yoga Mat Pro"},
		TimePeriod: models.TimeWindow{Value: 30, Unit: "days"},
	}
	result := models.StoreResult{
		Kind: models.ResultProductVelocity,
		Velocity: []models.ProductVelocityRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", UnitsSold: 60, DailyRate: 2.0},
		},
		WindowDays: 30,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "how much should I reorder?", intent, result)

	assert.Contains(t, answer.Text, "Based on the last 30 days, Yoga Mat Pro sold an average of 2.0 units per day (total: 60 units).")
	assert.Contains(t, answer.Text, "Order at least 33 units to maintain a 2-week buffer.")
	assert.Contains(t, answer.Text, "20% safety margin")
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestReorderAnswerShortWindow(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategoryInventory,
		Metrics:    []string{models.MetricReorderQuantity},
		TimePeriod: models.TimeWindow{Value: 7, Unit: "days"},
	}
	result := models.StoreResult{
		Kind: models.ResultProductVelocity,
		Velocity: []models.ProductVelocityRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", UnitsSold: 14, DailyRate: 2.0},
		},
		WindowDays: 7,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "reorder?", intent, result)

	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestReorderAnswerZeroWindow(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategoryInventory,
		Metrics:    []string{models.MetricReorderQuantity},
		Entities:   []string{"Yoga Mat Pro"},
		TimePeriod: models.TimeWindow{Value: 0, Unit: "days", Present: true},
	}
	result := models.StoreResult{
		Kind: models.ResultProductVelocity,
		Velocity: []models.ProductVelocityRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", UnitsSold: 60, DailyRate: 0},
		},
		WindowDays: 0,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "reorder for a zero-day window?", intent, result)

	// An explicit zero-length window never falls back to the 30-day default.
	assert.Contains(t, answer.Text, "Based on the last 0 days, Yoga Mat Pro sold an average of 0.0 units per day (total: 60 units).")
	assert.Contains(t, answer.Text, "Order at least 0 units")
	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestStockoutAnswerTiers(t *testing.T) {
	intent := models.Intent{
		Category: models.CategoryInventory,
		Metrics:  []string{models.MetricStockoutPrediction},
	}
	result := models.StoreResult{
		Kind: models.ResultStockoutRisks,
		Risks: []models.RiskRow{
			{ProductName: "Smart Watch Series 5", Stock: 10, DailyRate: 2.0, DaysLeft: 5.0, Risk: models.RiskHigh},
			{ProductName: "Portable Phone Charger", Stock: 6, DailyRate: 1.0, DaysLeft: 6.0, Risk: models.RiskMedium},
		},
		WindowDays: 7,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "stockouts?", intent, result)

	assert.Contains(t, answer.Text, "2 products are at risk of stockout within 7 days:")
	assert.Contains(t, answer.Text, "HIGH RISK:")
	assert.Contains(t, answer.Text, "• Smart Watch Series 5 - Current stock: 10 units, Daily sales: 2.0 units (runs out in ~5 days)")
	assert.Contains(t, answer.Text, "MEDIUM RISK:")
	assert.Contains(t, answer.Text, "• Portable Phone Charger - Current stock: 6 units, Daily sales: 1.0 units (runs out in ~6 days)")
	assert.Contains(t, answer.Text, "Recommendation: Prioritize reordering Smart Watch Series 5 immediately.")
	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestStockoutAnswerSingleMedium(t *testing.T) {
	intent := models.Intent{
		Category: models.CategoryInventory,
		Metrics:  []string{models.MetricStockoutPrediction},
	}
	result := models.StoreResult{
		Kind: models.ResultStockoutRisks,
		Risks: []models.RiskRow{
			{ProductName: "Organic Cotton T-Shirt", Stock: 12, DailyRate: 1.8, DaysLeft: 6.7, Risk: models.RiskMedium},
		},
		WindowDays: 7,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "stockouts?", intent, result)

	assert.Contains(t, answer.Text, "1 product is at risk of stockout within 7 days:")
	assert.NotContains(t, answer.Text, "HIGH RISK:")
	assert.Contains(t, answer.Text, "Recommendation: Prioritize reordering Organic Cotton T-Shirt immediately.")
}

func TestStockoutAnswerNoRisk(t *testing.T) {
	intent := models.Intent{
		Category: models.CategoryInventory,
		Metrics:  []string{models.MetricStockoutPrediction},
	}
	result := models.StoreResult{Kind: models.ResultStockoutRisks, WindowDays: 7}

	answer, _ := newSynthesizer().Format(context.Background(), "stockouts?", intent, result)

	assert.Equal(t, "Good news! Based on recent sales velocity, none of your products are at risk of stockout in the next 7 days.", answer.Text)
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestInventoryStatusAnswer(t *testing.T) {
	intent := models.Intent{Category: models.CategoryInventory}
	result := models.StoreResult{
		Kind: models.ResultInventory,
		Inventory: []models.InventoryRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", Stock: 22},
			{ProductID: "p2", ProductName: "Bamboo Sunglasses", Stock: 28},
		},
		WindowDays: 30,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "inventory?", intent, result)

	assert.Equal(t, "Found 2 products in inventory. Current stock levels are available in the data.", answer.Text)
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestRepeatCustomersAnswer(t *testing.T) {
	intent := models.Intent{
		Category:   models.CategoryCustomers,
		Metrics:    []string{models.MetricRepeatCustomers},
		TimePeriod: models.TimeWindow{Value: 30, Unit: "days"},
	}
	result := models.StoreResult{
		Kind: models.ResultCustomers,
		Customers: []models.CustomerRow{
			{CustomerID: "c1", Name: "Sarah Johnson", Email: "sarah.johnson@email.com", OrderCount: 5, TotalSpent: 1250},
			{CustomerID: "c2", Name: "Michael Chen", Email: "michael.chen@email.com", OrderCount: 3, TotalSpent: 890},
		},
		WindowDays: 30,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "repeat customers?", intent, result)

	assert.Contains(t, answer.Text, "You had 2 repeat customers last month:")
	assert.Contains(t, answer.Text, "Top Repeat Customers:")
	assert.Contains(t, answer.Text, "1. Sarah Johnson (sarah.johnson@email.com) - 5 orders, $1,250 total")
	assert.Contains(t, answer.Text, "2. Michael Chen (michael.chen@email.com) - 3 orders, $890 total")
	assert.Contains(t, answer.Text, "Consider implementing a loyalty program to retain them!")
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestTopCustomersAnswer(t *testing.T) {
	intent := models.Intent{Category: models.CategoryCustomers}
	result := models.StoreResult{
		Kind: models.ResultCustomers,
		Customers: []models.CustomerRow{
			{CustomerID: "c1", Name: "Sarah Johnson", Email: "sarah.johnson@email.com", OrderCount: 5, TotalSpent: 1250},
		},
		WindowDays: 30,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "best customers?", intent, result)

	assert.Contains(t, answer.Text, "Top 1 customers by total spending:")
	assert.Contains(t, answer.Text, "1. sarah.johnson@email.com - 5 orders, $1,250")
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestCustomersAnswerNoData(t *testing.T) {
	intent := models.Intent{Category: models.CategoryCustomers, Metrics: []string{models.MetricRepeatCustomers}}
	result := models.StoreResult{Kind: models.ResultCustomers, WindowDays: 90}

	answer, _ := newSynthesizer().Format(context.Background(), "repeat customers?", intent, result)

	assert.Equal(t, "No customer data found for the specified period.", answer.Text)
	assert.Equal(t, models.ConfidenceLow, answer.Confidence)
}

func TestGeneralAnswer(t *testing.T) {
	intent := models.Intent{Category: models.CategoryGeneral}
	result := models.StoreResult{
		Kind: models.ResultProductSales,
		ProductSales: []models.ProductSalesRow{
			{ProductID: "p1", ProductName: "Yoga Mat Pro", UnitsSold: 12, Revenue: 599.88},
		},
		WindowDays: 7,
	}

	answer, _ := newSynthesizer().Format(context.Background(), "what happened?", intent, result)

	assert.Contains(t, answer.Text, "Found 1 results for your query.")
	assert.Contains(t, answer.Text, "1. Yoga Mat Pro - 12 units - $599.88")
	assert.Equal(t, models.ConfidenceMedium, answer.Confidence)
}

func TestGeneralAnswerNoData(t *testing.T) {
	intent := models.Intent{Category: models.CategoryGeneral}
	result := models.StoreResult{Kind: models.ResultProductSales, WindowDays: 7}

	answer, _ := newSynthesizer().Format(context.Background(), "what happened?", intent, result)

	assert.Equal(t, "No data found for your query.", answer.Text)
	assert.Equal(t, models.ConfidenceLow, answer.Confidence)
}

type stubEnhancer struct {
	enhancement Enhancement
}

func (s *stubEnhancer) Enhance(_ context.Context, _, _, _ string) Enhancement {
	return s.enhancement
}

func TestFormatAppliesEnhancement(t *testing.T) {
	synth := NewSynthesizer(&stubEnhancer{enhancement: Enhancement{Applied: true, Text: "Polished answer."}}, logger.NewNoOpLogger())

	intent := models.Intent{Category: models.CategoryInventory}
	result := models.StoreResult{
		Kind:      models.ResultInventory,
		Inventory: []models.InventoryRow{{ProductID: "p1", ProductName: "Yoga Mat Pro", Stock: 22}},
	}

	answer, enhanced := synth.Format(context.Background(), "inventory?", intent, result)

	assert.True(t, enhanced)
	assert.Equal(t, "Polished answer.", answer.Text)
	// Enhancement never touches the grade.
	assert.Equal(t, models.ConfidenceHigh, answer.Confidence)
}

func TestFormatSurvivesSkippedEnhancement(t *testing.T) {
	synth := NewSynthesizer(&stubEnhancer{enhancement: Enhancement{Reason: "timeout"}}, logger.NewNoOpLogger())

	intent := models.Intent{Category: models.CategoryInventory}
	result := models.StoreResult{
		Kind:      models.ResultInventory,
		Inventory: []models.InventoryRow{{ProductID: "p1", ProductName: "Yoga Mat Pro", Stock: 22}},
	}

	answer, enhanced := synth.Format(context.Background(), "inventory?", intent, result)

	assert.False(t, enhanced)
	assert.Equal(t, "Found 1 products in inventory. Current stock levels are available in the data.", answer.Text)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", money(0, 2))
	assert.Equal(t, "79.99", money(79.99, 2))
	assert.Equal(t, "1,234.50", money(1234.5, 2))
	assert.Equal(t, "1,234,567.89", money(1234567.891, 2))
	assert.Equal(t, "1,250", money(1250, 0))
	assert.Equal(t, "-1,000.00", money(-1000, 2))
}
