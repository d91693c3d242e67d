// internal/store/fixture.go
package store

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"storefront-insights/internal/models"
)

// DefaultFixtureSeed keeps mock-mode data identical across runs unless the
// operator picks another seed.
const DefaultFixtureSeed = 42

type fixtureProduct struct {
	id    string
	title string
	sku   string
	price float64
}

var fixtureProducts = []fixtureProduct{
	{"1", "Wireless Bluetooth Headphones", "WBH-001", 79.99},
	{"2", "Organic Cotton T-Shirt", "OCT-001", 29.99},
	{"3", "Stainless Steel Water Bottle", "SSWB-001", 24.99},
	{"4", "Yoga Mat Pro", "YMP-001", 49.99},
	{"5", "Smart Watch Series 5", "SWS5-001", 299.99},
	{"6", "Leather Laptop Bag", "LLB-001", 89.99},
	{"7", "Portable Phone Charger", "PPC-001", 34.99},
	{"8", "Bamboo Sunglasses", "BS-001", 59.99},
	{"9", "Ceramic Coffee Mug Set", "CCMS-001", 39.99},
	{"10", "Fitness Resistance Bands", "FRB-001", 19.99},
}

var fixtureCustomerNames = []string{
	"Sarah Johnson", "Michael Chen", "Emily Davis", "James Wilson",
	"Lisa Anderson", "David Martinez", "Jennifer Taylor", "Robert Brown",
	"Maria Garcia", "William Lee", "Amanda White", "Christopher Moore",
	"Jessica Thomas", "Daniel Jackson", "Ashley Harris", "Matthew Martin",
	"Stephanie Thompson", "Andrew Robinson", "Michelle Clark", "Kevin Lewis",
}

var fixtureInventoryLevels = []int{45, 15, 78, 22, 12, 34, 56, 28, 41, 67}

// Fixture is a deterministic synthetic store: a fixed 10-product catalog,
// 90 days of seeded orders skewed toward the recent month, 20 customers
// and a fixed inventory position. Same seed, same data.
type Fixture struct {
	snapshot models.Snapshot
}

// NewFixture generates the data set from seed with now as the newest
// order date.
func NewFixture(seed int64, now time.Time) *Fixture {
	rng := rand.New(rand.NewSource(seed))

	var orders []models.OrderRecord
	for day := 0; day < 90; day++ {
		date := now.AddDate(0, 0, -day)

		// Recent days trade more.
		numOrders := 1 + rng.Intn(4)
		if day < 30 {
			numOrders = 3 + rng.Intn(6)
		}

		for i := 0; i < numOrders; i++ {
			product := fixtureProducts[rng.Intn(len(fixtureProducts))]
			customerID := 1 + rng.Intn(len(fixtureCustomerNames))
			quantity := 1 + rng.Intn(3)

			orders = append(orders, models.OrderRecord{
				OrderID:     fmt.Sprintf("%d", len(orders)+1),
				ProductID:   product.id,
				ProductName: product.title,
				CustomerID:  fmt.Sprintf("%d", customerID),
				Quantity:    quantity,
				UnitPrice:   product.price,
				CreatedAt:   date,
			})
		}
	}

	customers := make([]models.CustomerRecord, len(fixtureCustomerNames))
	for i, name := range fixtureCustomerNames {
		customers[i] = models.CustomerRecord{
			CustomerID: fmt.Sprintf("%d", i+1),
			Name:       name,
			Email:      strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@email.com",
		}
	}

	inventory := make([]models.InventoryRecord, len(fixtureProducts))
	for i, product := range fixtureProducts {
		inventory[i] = models.InventoryRecord{
			ProductID:   product.id,
			ProductName: product.title,
			Stock:       fixtureInventoryLevels[i],
		}
	}

	return &Fixture{snapshot: models.Snapshot{
		Orders:    orders,
		Inventory: inventory,
		Customers: customers,
	}}
}

// Snapshot returns the generated data set.
func (f *Fixture) Snapshot() models.Snapshot {
	return f.snapshot
}

// ProductNames lists the catalog titles, used as classifier vocabulary.
func ProductNames() []string {
	names := make([]string, len(fixtureProducts))
	for i, p := range fixtureProducts {
		names[i] = p.title
	}
	return names
}
