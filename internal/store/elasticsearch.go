// internal/store/elasticsearch.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"storefront-insights/internal/common/apperrors"
	"storefront-insights/internal/models"
)

const esPageSize = 10000

// ESSource loads snapshots from Elasticsearch. Orders live in ordersIndex;
// inventory and customers in their own indexes.
type ESSource struct {
	client         *elasticsearch.Client
	ordersIndex    string
	inventoryIndex string
	customersIndex string
	now            func() time.Time
}

// NewESSource builds a source over client with ordersIndex as the order
// index. Inventory and customer indexes are derived by convention.
func NewESSource(client *elasticsearch.Client, ordersIndex string, now func() time.Time) *ESSource {
	if now == nil {
		now = time.Now
	}
	return &ESSource{
		client:         client,
		ordersIndex:    ordersIndex,
		inventoryIndex: "inventory",
		customersIndex: "customers",
		now:            now,
	}
}

func (s *ESSource) Load(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	cutoff := s.now().AddDate(0, 0, -snapshotHorizonDays)
	ordersQuery := map[string]interface{}{
		"size": esPageSize,
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"created_at": map[string]interface{}{
					"gte": cutoff.Format(time.RFC3339),
				},
			},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
	if err := s.search(ctx, s.ordersIndex, ordersQuery, &snap.Orders); err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("elasticsearch", fmt.Errorf("load orders: %w", err))
	}

	matchAll := map[string]interface{}{
		"size":  esPageSize,
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	}
	if err := s.search(ctx, s.inventoryIndex, matchAll, &snap.Inventory); err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("elasticsearch", fmt.Errorf("load inventory: %w", err))
	}
	if err := s.search(ctx, s.customersIndex, matchAll, &snap.Customers); err != nil {
		return models.Snapshot{}, apperrors.NewStoreQueryFailed("elasticsearch", fmt.Errorf("load customers: %w", err))
	}

	return snap, nil
}

// search runs one query and unmarshals every hit source into out, which
// must be a pointer to a slice.
func (s *ESSource) search(ctx context.Context, index string, query map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search %s: %s", index, res.Status())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", index, err)
	}

	sources := make([]json.RawMessage, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		sources = append(sources, hit.Source)
	}

	merged, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("merge %s hits: %w", index, err)
	}
	return json.Unmarshal(merged, out)
}
