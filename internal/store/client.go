// internal/store/client.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-insights/internal/analytics"
	"storefront-insights/internal/common/apperrors"
	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

var ErrStoreQueryFailed = errors.New("STORE_QUERY_FAILED")

// Default windows applied when the intent carries none, in days. They
// match the aggregation engine's own defaults and feed confidence scoring.
const (
	defaultSalesDays     = 7
	defaultVelocityDays  = 30
	defaultRepeatDays    = 90
	defaultCustomersDays = 30
	stockoutWindowDays   = 7
)

// RowSource loads the raw snapshot an aggregation runs over.
type RowSource interface {
	Load(ctx context.Context) (models.Snapshot, error)
}

// Executor runs a validated query for an intent and returns typed rows.
type Executor interface {
	Execute(ctx context.Context, query string, intent models.Intent) (models.StoreResult, error)
}

// Client executes queries by loading a snapshot from its row source and
// routing the intent to the matching aggregation.
type Client struct {
	source RowSource
	now    func() time.Time
	logger logger.Logger
}

// NewClient builds a store client over source. now is injectable so
// aggregation windows stay fixed under test.
func NewClient(source RowSource, now func() time.Time, log logger.Logger) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{
		source: source,
		now:    now,
		logger: log.With(map[string]interface{}{"component": "store-client"}),
	}
}

func (c *Client) Execute(ctx context.Context, query string, intent models.Intent) (models.StoreResult, error) {
	snap, err := c.source.Load(ctx)
	if err != nil {
		// Live sources tag their own failures; keep that intact.
		var perr *apperrors.PipelineError
		if errors.As(err, &perr) {
			return models.StoreResult{}, err
		}
		return models.StoreResult{}, fmt.Errorf("%w: %v", ErrStoreQueryFailed, err)
	}

	engine := analytics.NewEngine(snap, c.now())
	window := intent.TimePeriod

	c.logger.Debug("executing query", map[string]interface{}{
		"category": string(intent.Category),
		"metrics":  intent.Metrics,
	})

	switch {
	case intent.Category == models.CategorySales &&
		(intent.HasMetric(models.MetricTopProducts) || intent.HasMetric(models.MetricTopSellers)):
		return models.StoreResult{
			Kind:         models.ResultProductSales,
			ProductSales: engine.TopProducts(window, intent.Entities),
			WindowDays:   window.DaysOr(defaultSalesDays),
		}, nil

	case intent.Category == models.CategoryInventory && intent.HasMetric(models.MetricReorderQuantity):
		return models.StoreResult{
			Kind:       models.ResultProductVelocity,
			Velocity:   engine.SalesVelocity(window, intent.Entities),
			WindowDays: window.DaysOr(defaultVelocityDays),
		}, nil

	case intent.Category == models.CategoryInventory && intent.HasMetric(models.MetricStockoutPrediction):
		return models.StoreResult{
			Kind:       models.ResultStockoutRisks,
			Risks:      engine.StockoutRisks(),
			WindowDays: stockoutWindowDays,
		}, nil

	case intent.Category == models.CategoryCustomers && intent.HasMetric(models.MetricRepeatCustomers):
		return models.StoreResult{
			Kind:       models.ResultCustomers,
			Customers:  engine.RepeatCustomers(window),
			WindowDays: window.DaysOr(defaultRepeatDays),
		}, nil

	case intent.Category == models.CategorySales:
		return models.StoreResult{
			Kind:       models.ResultDailySummary,
			Summary:    engine.SalesSummary(window),
			WindowDays: window.DaysOr(defaultSalesDays),
		}, nil

	case intent.Category == models.CategoryInventory:
		return models.StoreResult{
			Kind:       models.ResultInventory,
			Inventory:  engine.InventoryLevels(intent.Entities),
			WindowDays: window.DaysOr(defaultCustomersDays),
		}, nil

	case intent.Category == models.CategoryCustomers:
		return models.StoreResult{
			Kind:       models.ResultCustomers,
			Customers:  engine.TopCustomers(window),
			WindowDays: window.DaysOr(defaultCustomersDays),
		}, nil

	default:
		return models.StoreResult{
			Kind:         models.ResultProductSales,
			ProductSales: engine.TopProducts(window, intent.Entities),
			WindowDays:   window.DaysOr(defaultSalesDays),
		}, nil
	}
}

// fixtureSource serves the precomputed fixture snapshot.
type fixtureSource struct {
	fixture *Fixture
}

// NewFixtureSource wraps a fixture as a row source.
func NewFixtureSource(fixture *Fixture) RowSource {
	return &fixtureSource{fixture: fixture}
}

func (s *fixtureSource) Load(_ context.Context) (models.Snapshot, error) {
	return s.fixture.Snapshot(), nil
}
