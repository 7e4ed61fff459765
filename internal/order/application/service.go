package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"shipflow/internal/order/domain"
	"shipflow/pkg/faults"
	"shipflow/pkg/workflow"
)

// Service runs the order creation workflow: enrich every line item via the
// catalog, persist the record, publish a creation event, archive a
// snapshot. Steps are strictly sequential; the first failure aborts the
// rest and nothing already written is retracted. Retries are the caller's
// business via re-invocation.
type Service struct {
	log       *slog.Logger
	runner    *workflow.Runner
	catalog   Catalog
	repo      Repository
	publisher Publisher
	archive   Archive
	enricher  Enricher
}

func NewService(log *slog.Logger, runner *workflow.Runner, catalog Catalog, repo Repository, publisher Publisher, archive Archive, enricher Enricher) *Service {
	return &Service{
		log:       log,
		runner:    runner,
		catalog:   catalog,
		repo:      repo,
		publisher: publisher,
		archive:   archive,
		enricher:  enricher,
	}
}

func (s *Service) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if err := validate(o); err != nil {
		return domain.Order{}, err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	steps := []workflow.Step{
		{
			// Pure reads: a failure here leaves nothing to clean up.
			Name: "enrich",
			Run: func(ctx context.Context) error {
				return s.enricher.Enrich(ctx, s.catalog, o.Items)
			},
		},
		{
			Name:    "persist",
			Mutates: true,
			Run: func(ctx context.Context) error {
				return s.repo.Put(ctx, o)
			},
		},
		{
			Name:    "publish",
			Mutates: true,
			Run: func(ctx context.Context) error {
				payload, err := json.Marshal(domain.OrderCreated{
					OrderID:    o.ID,
					CarrierRef: o.CarrierRef,
					Items:      o.Items,
				})
				if err != nil {
					return err
				}
				return s.publisher.Publish(ctx, "OrderCreated", o.ID, payload)
			},
		},
		{
			Name:    "archive",
			Mutates: true,
			Run: func(ctx context.Context) error {
				snapshot, err := json.Marshal(o)
				if err != nil {
					return err
				}
				_, err = s.archive.Store(ctx, "orders", snapshot)
				return err
			},
		},
	}

	if err := s.runner.Execute(ctx, "order_create", steps); err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order created", "order_id", o.ID, "items", len(o.Items))
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, faults.Validation("order id is required")
	}
	return s.repo.Get(ctx, id)
}

func validate(o domain.Order) error {
	if len(o.Items) == 0 {
		return faults.Validation("order has no line items")
	}
	for i, item := range o.Items {
		if item.ProductID == "" {
			return faults.Validation("line item %d has no product id", i)
		}
		if item.Quantity < 1 {
			return faults.Validation("line item %d has quantity %d", i, item.Quantity)
		}
	}
	return nil
}
