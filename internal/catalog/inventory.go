package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// StockLine is one product/quantity pair to decrement.
type StockLine struct {
	ProductID string
	Quantity  int
}

type StockClient interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// InventoryUpdater applies stock decrements strictly in list order. The
// first failing line aborts the rest; lines already applied stay applied —
// no compensating increment is ever issued.
type InventoryUpdater struct {
	log        *slog.Logger
	stock      StockClient
	decrements prometheus.Counter
}

// NewInventoryUpdater wraps stock. decrements may be nil.
func NewInventoryUpdater(log *slog.Logger, stock StockClient, decrements prometheus.Counter) *InventoryUpdater {
	return &InventoryUpdater{log: log, stock: stock, decrements: decrements}
}

// DecrementAll returns how many lines were applied before the failure, so
// callers can tell a clean abort (applied == 0) from partial completion.
func (u *InventoryUpdater) DecrementAll(ctx context.Context, lines []StockLine) (int, error) {
	for i, line := range lines {
		if err := u.stock.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			u.log.Error("stock decrement failed",
				"product_id", line.ProductID, "applied", i, "total", len(lines), "err", err)
			return i, fmt.Errorf("decrement %s: %w", line.ProductID, err)
		}
		if u.decrements != nil {
			u.decrements.Inc()
		}
	}
	return len(lines), nil
}
