package application

import (
	"context"
	"fmt"

	"shipflow/internal/order/domain"
)

// SequentialEnricher resolves names one item at a time, in list order.
type SequentialEnricher struct{}

func (SequentialEnricher) Enrich(ctx context.Context, catalog Catalog, items []domain.LineItem) error {
	for i := range items {
		name, err := catalog.ResolveName(ctx, items[i].ProductID)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", items[i].ProductID, err)
		}
		items[i].ProductName = name
	}
	return nil
}

// ConcurrentEnricher dispatches all lookups at once. First error wins and
// cancels the stragglers; their results are discarded. Item order never
// affects correctness because each result is written to its own index.
type ConcurrentEnricher struct{}

func (ConcurrentEnricher) Enrich(ctx context.Context, catalog Catalog, items []domain.LineItem) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		idx  int
		name string
		err  error
	}
	results := make(chan result, len(items))
	for i := range items {
		go func(i int) {
			name, err := catalog.ResolveName(ctx, items[i].ProductID)
			results <- result{idx: i, name: name, err: err}
		}(i)
	}

	var firstErr error
	for range items {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("resolve %s: %w", items[res.idx].ProductID, res.err)
				cancel()
			}
			continue
		}
		items[res.idx].ProductName = res.name
	}
	return firstErr
}
