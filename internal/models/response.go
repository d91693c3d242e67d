// internal/models/response.go
package models

import "time"

// ConfidenceLevel grades how well the returned data supports the answer.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// StoreResult is what a backend execution hands to the answer stage:
// exactly one typed row slice is populated, matching the Kind.
type ResultKind string

const (
	ResultProductSales    ResultKind = "product_sales"
	ResultProductVelocity ResultKind = "product_velocity"
	ResultStockoutRisks   ResultKind = "stockout_risks"
	ResultCustomers       ResultKind = "customers"
	ResultDailySummary    ResultKind = "daily_summary"
	ResultInventory       ResultKind = "inventory"
)

// StoreResult carries the rows produced for one question.
type StoreResult struct {
	Kind         ResultKind           `json:"kind"`
	ProductSales []ProductSalesRow    `json:"product_sales,omitempty"`
	Velocity     []ProductVelocityRow `json:"velocity,omitempty"`
	Risks        []RiskRow            `json:"risks,omitempty"`
	Customers    []CustomerRow        `json:"customers,omitempty"`
	Summary      []DailySummaryRow    `json:"summary,omitempty"`
	Inventory    []InventoryRow       `json:"inventory,omitempty"`
	WindowDays   int                  `json:"window_days"`
}

// RowCount returns the number of rows in whichever slice is populated.
func (r StoreResult) RowCount() int {
	switch r.Kind {
	case ResultProductSales:
		return len(r.ProductSales)
	case ResultProductVelocity:
		return len(r.Velocity)
	case ResultStockoutRisks:
		return len(r.Risks)
	case ResultCustomers:
		return len(r.Customers)
	case ResultDailySummary:
		return len(r.Summary)
	case ResultInventory:
		return len(r.Inventory)
	}
	return 0
}

// AnswerResult is the synthesized answer before enhancement.
type AnswerResult struct {
	Text       string          `json:"text"`
	Confidence ConfidenceLevel `json:"confidence"`
}

// ResponseMetadata is the diagnostic block of a QueryResponse.
type ResponseMetadata struct {
	RequestID    string     `json:"request_id"`
	Category     Category   `json:"category"`
	Metrics      []string   `json:"metrics"`
	Entities     []string   `json:"entities"`
	TimePeriod   TimeWindow `json:"time_period"`
	Plan         Plan       `json:"plan"`
	Validation   Validation `json:"validation"`
	RowsReturned int        `json:"rows_returned"`
	Completeness float64    `json:"completeness"`
	ProcessingMs int64      `json:"processing_ms"`
	Timestamp    time.Time  `json:"timestamp"`
}

// QueryResponse is the pipeline's terminal envelope for one question.
type QueryResponse struct {
	Question    string           `json:"question"`
	Answer      string           `json:"answer"`
	Confidence  ConfidenceLevel  `json:"confidence"`
	Query       string           `json:"query"`
	DataSources []string         `json:"data_sources"`
	Enhanced    bool             `json:"enhanced"`
	Metadata    ResponseMetadata `json:"metadata"`
}
