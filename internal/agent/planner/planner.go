// internal/agent/planner/planner.go
package planner

import "storefront-insights/internal/models"

// Lookup tables keyed by category. The routing is intentionally static so
// planning stays deterministic and free of external calls.
var dataSourceMap = map[models.Category][]string{
	models.CategorySales:     {"orders", "products"},
	models.CategoryInventory: {"inventory_levels", "products", "orders"},
	models.CategoryCustomers: {"customers", "orders"},
	models.CategoryGeneral:   {"orders", "products"},
}

var requiredFieldMap = map[models.Category][]string{
	models.CategorySales:     {"product_id", "product_title", "quantity", "total_price", "created_at"},
	models.CategoryInventory: {"product_id", "product_title", "quantity", "sku"},
	models.CategoryCustomers: {"customer_id", "customer_email", "customer_name", "total_price"},
	models.CategoryGeneral:   {"product_id", "quantity", "created_at"},
}

// Plan derives the data sources, fields and aggregation shape a question
// needs from its classified intent.
func Plan(intent models.Intent) models.Plan {
	sources, ok := dataSourceMap[intent.Category]
	if !ok {
		sources = []string{"orders"}
	}
	fields, ok := requiredFieldMap[intent.Category]
	if !ok {
		fields = []string{"product_id", "created_at"}
	}

	return models.Plan{
		DataSources:     sources,
		RequiredFields:  fields,
		AggregationType: aggregationFor(intent),
	}
}

func aggregationFor(intent models.Intent) models.AggregationType {
	switch {
	case intent.HasMetric(models.MetricTopProducts) || intent.HasMetric(models.MetricTopSellers):
		return models.AggSumGroup
	case intent.HasMetric(models.MetricStockoutPrediction) || intent.HasMetric(models.MetricReorderQuantity):
		return models.AggProjection
	case intent.HasMetric(models.MetricRepeatCustomers):
		return models.AggCountGroup
	default:
		return models.AggSimple
	}
}
