// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-insights/internal/common/apperrors"
	"storefront-insights/internal/models"
)

// Snapshot load queries. Orders are bounded to 90 days because no
// aggregation looks further back than the repeat-customer default window.
const (
	ordersQuery = `SELECT order_id, product_id, product_title, customer_id, quantity, unit_price, created_at
		FROM orders WHERE created_at >= $1 ORDER BY created_at DESC`

	inventoryQuery = `SELECT product_id, product_title, stock FROM inventory_levels`

	customersQuery = `SELECT customer_id, customer_name, customer_email FROM customers`
)

const snapshotHorizonDays = 90

// SQLSource loads snapshots from PostgreSQL.
type SQLSource struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLSource builds a source over db. now is injectable for tests.
func NewSQLSource(db *sql.DB, now func() time.Time) *SQLSource {
	if now == nil {
		now = time.Now
	}
	return &SQLSource{db: db, now: now}
}

func (s *SQLSource) Load(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	cutoff := s.now().AddDate(0, 0, -snapshotHorizonDays)
	orders, err := s.loadOrders(ctx, cutoff)
	if err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("postgres", fmt.Errorf("load orders: %w", err))
	}
	snap.Orders = orders

	inventory, err := s.loadInventory(ctx)
	if err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("postgres", fmt.Errorf("load inventory: %w", err))
	}
	snap.Inventory = inventory

	customers, err := s.loadCustomers(ctx)
	if err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("postgres", fmt.Errorf("load customers: %w", err))
	}
	snap.Customers = customers

	return snap, nil
}

func (s *SQLSource) loadOrders(ctx context.Context, cutoff time.Time) ([]models.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, ordersQuery, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.OrderRecord
	for rows.Next() {
		var o models.OrderRecord
		if err := rows.Scan(&o.OrderID, &o.ProductID, &o.ProductName, &o.CustomerID, &o.Quantity, &o.UnitPrice, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *SQLSource) loadInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, inventoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventory []models.InventoryRecord
	for rows.Next() {
		var inv models.InventoryRecord
		if err := rows.Scan(&inv.ProductID, &inv.ProductName, &inv.Stock); err != nil {
			return nil, err
		}
		inventory = append(inventory, inv)
	}
	return inventory, rows.Err()
}

func (s *SQLSource) loadCustomers(ctx context.Context) ([]models.CustomerRecord, error) {
	rows, err := s.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.CustomerRecord
	for rows.Next() {
		var c models.CustomerRecord
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
