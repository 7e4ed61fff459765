package application

import (
	"context"

	"shipflow/internal/catalog"
	"shipflow/internal/transport/domain"
)

type Repository interface {
	Put(ctx context.Context, t domain.Transport) error
	Get(ctx context.Context, id string) (domain.Transport, error)
}

type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte) error
}

type Archive interface {
	Store(ctx context.Context, kind string, body []byte) (string, error)
}

type Inventory interface {
	DecrementAll(ctx context.Context, lines []catalog.StockLine) (int, error)
}
