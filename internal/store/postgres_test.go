// internal/store/postgres_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-insights/internal/common/apperrors"
)

func TestSQLSourceLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	createdAt := now.AddDate(0, 0, -2)

	mock.ExpectQuery("SELECT order_id, product_id, product_title").
		WithArgs(now.AddDate(0, 0, -90)).
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "product_id", "product_title", "customer_id", "quantity", "unit_price", "created_at",
		}).
			AddRow("1", "p1", "Yoga Mat Pro", "c1", 2, 49.99, createdAt).
			AddRow("2", "p2", "Bamboo Sunglasses", "c2", 1, 59.99, createdAt))

	mock.ExpectQuery("SELECT product_id, product_title, stock").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_title", "stock"}).
			AddRow("p1", "Yoga Mat Pro", 22).
			AddRow("p2", "Bamboo Sunglasses", 28))

	mock.ExpectQuery("SELECT customer_id, customer_name, customer_email").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "customer_name", "customer_email"}).
			AddRow("c1", "Sarah Johnson", "sarah.johnson@email.com").
			AddRow("c2", "Michael Chen", "michael.chen@email.com"))

	source := NewSQLSource(db, func() time.Time { return now })

	snap, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Orders, 2)
	assert.Equal(t, "Yoga Mat Pro", snap.Orders[0].ProductName)
	assert.Equal(t, 2, snap.Orders[0].Quantity)
	assert.InDelta(t, 49.99, snap.Orders[0].UnitPrice, 0.001)

	require.Len(t, snap.Inventory, 2)
	assert.Equal(t, 22, snap.Inventory[0].Stock)

	require.Len(t, snap.Customers, 2)
	assert.Equal(t, "Sarah Johnson", snap.Customers[0].Name)
	assert.Equal(t, "sarah.johnson@email.com", snap.Customers[0].Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceOrdersFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_id, product_id, product_title").
		WillReturnError(errors.New("relation does not exist"))

	source := NewSQLSource(db, nil)

	_, err = source.Load(context.Background())

	var perr *apperrors.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, apperrors.ErrCodeStoreQueryFailed, perr.Code)
	assert.Contains(t, perr.Details, "load orders")
}

func TestSQLSourceEmptyTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_id, product_id, product_title").
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "product_id", "product_title", "customer_id", "quantity", "unit_price", "created_at",
		}))
	mock.ExpectQuery("SELECT product_id, product_title, stock").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_title", "stock"}))
	mock.ExpectQuery("SELECT customer_id, customer_name, customer_email").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "customer_name", "customer_email"}))

	source := NewSQLSource(db, nil)

	snap, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Inventory)
	assert.Empty(t, snap.Customers)
}
