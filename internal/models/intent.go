// internal/models/intent.go
package models

import "encoding/json"

// Category is the resolved question category. Unrecognized classifier output
// must be normalized to CategoryGeneral before an Intent is constructed.
type Category string

const (
	CategorySales     Category = "sales"
	CategoryInventory Category = "inventory"
	CategoryCustomers Category = "customers"
	CategoryGeneral   Category = "general"
)

// NormalizeCategory maps arbitrary classifier output onto the closed
// Category set.
func NormalizeCategory(s string) Category {
	switch Category(s) {
	case CategorySales, CategoryInventory, CategoryCustomers:
		return Category(s)
	default:
		return CategoryGeneral
	}
}

// Well-known metric tags produced by the intent classifier.
const (
	MetricTopProducts        = "top_products"
	MetricTopSellers         = "top_sellers"
	MetricReorderQuantity    = "reorder_quantity"
	MetricStockoutPrediction = "stockout_prediction"
	MetricRepeatCustomers    = "repeat_customers"
)

// TimeWindow is a relative date range. Present distinguishes an explicit
// zero-length window from a missing one: an absent window lets each
// consumer apply its own default, while a present zero-value window is a
// real zero-length range. Future selects a projected window ("next N
// days") instead of a trailing one.
type TimeWindow struct {
	Value   int    `json:"value"`
	Unit    string `json:"unit"`
	Future  bool   `json:"future"`
	Present bool   `json:"-"`
}

// UnmarshalJSON marks the window present whenever the payload carries a
// time_period object, whatever its value.
func (w *TimeWindow) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	type plain TimeWindow
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = TimeWindow(p)
	w.Present = true
	return nil
}

// IsZero reports whether the window is absent.
func (w TimeWindow) IsZero() bool {
	return w.Value == 0 && !w.Present
}

// DaysOr returns the window length in days, or def when the window is
// absent. A present zero-value window yields 0, not the default. Only
// day-granular windows are produced by the shipped classifiers; any
// other unit is treated as days.
func (w TimeWindow) DaysOr(def int) int {
	if w.IsZero() {
		return def
	}
	return w.Value
}

// Intent is the structured classification of a natural-language question.
// Immutable once created; handed by value to every downstream stage.
type Intent struct {
	Category   Category   `json:"category"`
	Metrics    []string   `json:"metrics"`
	TimePeriod TimeWindow `json:"time_period"`
	Entities   []string   `json:"entities"`
}

// HasMetric reports whether the intent carries the given metric tag.
func (i Intent) HasMetric(tag string) bool {
	for _, m := range i.Metrics {
		if m == tag {
			return true
		}
	}
	return false
}

// AggregationType classifies the query plan's aggregation shape.
type AggregationType string

const (
	AggSumGroup   AggregationType = "sum_group"
	AggProjection AggregationType = "projection"
	AggCountGroup AggregationType = "count_group"
	AggSimple     AggregationType = "simple"
)

// Plan names the data sources and fields a query needs. Derived purely
// from Intent via static lookup tables; recomputed per request.
type Plan struct {
	DataSources     []string        `json:"data_sources"`
	RequiredFields  []string        `json:"required_fields"`
	AggregationType AggregationType `json:"aggregation_type"`
}

// Validation is the outcome of static query validation.
type Validation struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}
