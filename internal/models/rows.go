// internal/models/rows.go
package models

import "time"

// OrderRecord is a single order line as loaded from a row source.
type OrderRecord struct {
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	CustomerID  string    `json:"customer_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// Revenue is the order line total.
func (o OrderRecord) Revenue() float64 {
	return float64(o.Quantity) * o.UnitPrice
}

// InventoryRecord is the current stock position of one product.
type InventoryRecord struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// CustomerRecord is a customer with a lifetime order count.
type CustomerRecord struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	OrderCount int     `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// Snapshot is the raw data set an aggregation runs over. Row sources load
// it; the analytics engine never talks to a backend directly.
type Snapshot struct {
	Orders    []OrderRecord
	Inventory []InventoryRecord
	Customers []CustomerRecord
}

// RiskLevel tiers a product's stockout exposure.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// ProductSalesRow is one ranked product from a sales aggregation.
type ProductSalesRow struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// ProductVelocityRow carries per-product daily sales rate.
type ProductVelocityRow struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	DailyRate   float64 `json:"daily_rate"`
}

// RiskRow is a product flagged by the stockout risk scan.
type RiskRow struct {
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Stock        int       `json:"stock"`
	DailyRate    float64   `json:"daily_rate"`
	DaysLeft     float64   `json:"days_left"`
	Risk         RiskLevel `json:"risk"`
	ReorderUnits int       `json:"reorder_units"`
}

// CustomerRow is one ranked customer from a customer aggregation.
type CustomerRow struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	OrderCount int     `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// DailySummaryRow is one day of the sales summary series.
type DailySummaryRow struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

// InventoryRow is one product from the inventory level listing.
type InventoryRow struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}
