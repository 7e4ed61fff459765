package application

import (
	"context"

	"shipflow/internal/order/domain"
)

type Catalog interface {
	ResolveName(ctx context.Context, productID string) (string, error)
}

type Repository interface {
	Put(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte) error
}

type Archive interface {
	Store(ctx context.Context, kind string, body []byte) (string, error)
}

// Enricher fills in the product names of items in place. Strategies differ
// only in how lookups are dispatched; any single failure aborts the whole
// stage.
type Enricher interface {
	Enrich(ctx context.Context, catalog Catalog, items []domain.LineItem) error
}
