// internal/analytics/engine.go
package analytics

import (
	"sort"
	"strings"
	"time"

	"storefront-insights/internal/models"
)

// Default trailing windows per aggregation, in days.
const (
	defaultTopProductsDays  = 7
	defaultVelocityDays     = 30
	defaultRepeatDays       = 90
	defaultSummaryDays      = 7
	defaultTopCustomersDays = 30
	stockoutVelocityDays    = 7
	stockoutHorizonDays     = 7.0
	topProductsLimit        = 5
	topCustomersLimit       = 10
)

// Engine runs aggregations over one immutable data snapshot. All methods
// are pure: empty input yields empty output, never an error.
type Engine struct {
	snap models.Snapshot
	now  time.Time
}

// NewEngine binds a snapshot to a fixed reference time.
func NewEngine(snap models.Snapshot, now time.Time) *Engine {
	return &Engine{snap: snap, now: now}
}

// TopProducts ranks products by units sold in the window, at most 5 rows.
// Ties keep first-seen order.
func (e *Engine) TopProducts(window models.TimeWindow, entities []string) []models.ProductSalesRow {
	cutoff := Cutoff(e.now, window, defaultTopProductsDays)

	byProduct := make(map[string]*models.ProductSalesRow)
	var order []string
	for _, o := range e.snap.Orders {
		if o.CreatedAt.Before(cutoff) || !matchesEntities(o.ProductName, entities) {
			continue
		}
		row, ok := byProduct[o.ProductID]
		if !ok {
			row = &models.ProductSalesRow{ProductID: o.ProductID, ProductName: o.ProductName}
			byProduct[o.ProductID] = row
			order = append(order, o.ProductID)
		}
		row.UnitsSold += o.Quantity
		row.Revenue += o.Revenue()
	}

	rows := make([]models.ProductSalesRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byProduct[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UnitsSold > rows[j].UnitsSold
	})
	if len(rows) > topProductsLimit {
		rows = rows[:topProductsLimit]
	}
	return rows
}

// SalesVelocity computes per-product daily sales rate over the window.
// A zero-length window keeps every order in scope but reports a 0 rate:
// the rate is undefined there, never a division fault.
func (e *Engine) SalesVelocity(window models.TimeWindow, entities []string) []models.ProductVelocityRow {
	days := window.DaysOr(defaultVelocityDays)
	cutoff := e.now.AddDate(0, 0, -days)

	byProduct := make(map[string]*models.ProductVelocityRow)
	var order []string
	for _, o := range e.snap.Orders {
		if (days > 0 && o.CreatedAt.Before(cutoff)) || !matchesEntities(o.ProductName, entities) {
			continue
		}
		row, ok := byProduct[o.ProductID]
		if !ok {
			row = &models.ProductVelocityRow{ProductID: o.ProductID, ProductName: o.ProductName}
			byProduct[o.ProductID] = row
			order = append(order, o.ProductID)
		}
		row.UnitsSold += o.Quantity
	}

	rows := make([]models.ProductVelocityRow, 0, len(order))
	for _, id := range order {
		row := *byProduct[id]
		if days > 0 {
			row.DailyRate = float64(row.UnitsSold) / float64(days)
		}
		rows = append(rows, row)
	}
	return rows
}

// StockoutRisks joins recent sales velocity with stock on hand and keeps
// products projected to run out within the horizon, soonest first.
func (e *Engine) StockoutRisks() []models.RiskRow {
	velocity := e.SalesVelocity(models.TimeWindow{Value: stockoutVelocityDays, Unit: "days"}, nil)

	stockByID := make(map[string]int, len(e.snap.Inventory))
	inInventory := make(map[string]bool, len(e.snap.Inventory))
	for _, inv := range e.snap.Inventory {
		stockByID[inv.ProductID] = inv.Stock
		inInventory[inv.ProductID] = true
	}

	var risks []models.RiskRow
	for _, vel := range velocity {
		if !inInventory[vel.ProductID] || vel.DailyRate <= 0 {
			continue
		}
		stock := stockByID[vel.ProductID]
		daysLeft := float64(stock) / vel.DailyRate
		if daysLeft > stockoutHorizonDays {
			continue
		}
		risks = append(risks, models.RiskRow{
			ProductID:    vel.ProductID,
			ProductName:  vel.ProductName,
			Stock:        stock,
			DailyRate:    vel.DailyRate,
			DaysLeft:     daysLeft,
			Risk:         ClassifyRisk(daysLeft),
			ReorderUnits: EstimateReorder(vel.UnitsSold, stockoutVelocityDays),
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].DaysLeft < risks[j].DaysLeft
	})
	return risks
}

// RepeatCustomers returns customers with more than one order in the window,
// most orders first.
func (e *Engine) RepeatCustomers(window models.TimeWindow) []models.CustomerRow {
	rows := e.customerTotals(window, defaultRepeatDays)

	repeat := rows[:0]
	for _, c := range rows {
		if c.OrderCount > 1 {
			repeat = append(repeat, c)
		}
	}
	sort.SliceStable(repeat, func(i, j int) bool {
		return repeat[i].OrderCount > repeat[j].OrderCount
	})
	return repeat
}

// TopCustomers ranks customers by spend in the window, at most 10 rows.
func (e *Engine) TopCustomers(window models.TimeWindow) []models.CustomerRow {
	rows := e.customerTotals(window, defaultTopCustomersDays)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalSpent > rows[j].TotalSpent
	})
	if len(rows) > topCustomersLimit {
		rows = rows[:topCustomersLimit]
	}
	return rows
}

// SalesSummary groups orders in the window by calendar date, newest first.
func (e *Engine) SalesSummary(window models.TimeWindow) []models.DailySummaryRow {
	cutoff := Cutoff(e.now, window, defaultSummaryDays)

	byDate := make(map[string]*models.DailySummaryRow)
	for _, o := range e.snap.Orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		date := o.CreatedAt.Format("2006-01-02")
		row, ok := byDate[date]
		if !ok {
			row = &models.DailySummaryRow{Date: date}
			byDate[date] = row
		}
		row.Orders++
		row.Units += o.Quantity
		row.Revenue += o.Revenue()
	}

	rows := make([]models.DailySummaryRow, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows
}

// InventoryLevels lists current stock, filtered by entity substring match.
func (e *Engine) InventoryLevels(entities []string) []models.InventoryRow {
	rows := make([]models.InventoryRow, 0, len(e.snap.Inventory))
	for _, inv := range e.snap.Inventory {
		if !matchesEntities(inv.ProductName, entities) {
			continue
		}
		rows = append(rows, models.InventoryRow{
			ProductID:   inv.ProductID,
			ProductName: inv.ProductName,
			Stock:       inv.Stock,
		})
	}
	return rows
}

func (e *Engine) customerTotals(window models.TimeWindow, defDays int) []models.CustomerRow {
	cutoff := Cutoff(e.now, window, defDays)

	nameByID := make(map[string]string, len(e.snap.Customers))
	emailByID := make(map[string]string, len(e.snap.Customers))
	for _, c := range e.snap.Customers {
		nameByID[c.CustomerID] = c.Name
		emailByID[c.CustomerID] = c.Email
	}

	byCustomer := make(map[string]*models.CustomerRow)
	var order []string
	for _, o := range e.snap.Orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		row, ok := byCustomer[o.CustomerID]
		if !ok {
			row = &models.CustomerRow{
				CustomerID: o.CustomerID,
				Name:       nameByID[o.CustomerID],
				Email:      emailByID[o.CustomerID],
			}
			byCustomer[o.CustomerID] = row
			order = append(order, o.CustomerID)
		}
		row.OrderCount++
		row.TotalSpent += o.Revenue()
	}

	rows := make([]models.CustomerRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byCustomer[id])
	}
	return rows
}

// matchesEntities reports whether name contains any entity,
// case-insensitive. An empty entity list matches everything.
func matchesEntities(name string, entities []string) bool {
	if len(entities) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, entity := range entities {
		if strings.Contains(lower, strings.ToLower(entity)) {
			return true
		}
	}
	return false
}
