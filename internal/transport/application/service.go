package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"shipflow/internal/catalog"
	"shipflow/internal/transport/domain"
	"shipflow/pkg/faults"
	"shipflow/pkg/workflow"
)

// Service owns the two transport entry points. Creation persists and
// publishes; finalization decrements stock and archives. They are
// independent workflows, not one state machine: finalization operates on
// the payload the caller supplies and never re-reads the persisted record.
type Service struct {
	log       *slog.Logger
	runner    *workflow.Runner
	repo      Repository
	publisher Publisher
	archive   Archive
	inventory Inventory
}

func NewService(log *slog.Logger, runner *workflow.Runner, repo Repository, publisher Publisher, archive Archive, inventory Inventory) *Service {
	return &Service{
		log:       log,
		runner:    runner,
		repo:      repo,
		publisher: publisher,
		archive:   archive,
		inventory: inventory,
	}
}

func (s *Service) CreateTransport(ctx context.Context, t domain.Transport) (domain.Transport, error) {
	if err := validate(t); err != nil {
		return domain.Transport{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	steps := []workflow.Step{
		{
			Name:    "persist",
			Mutates: true,
			Run: func(ctx context.Context) error {
				return s.repo.Put(ctx, t)
			},
		},
		{
			Name:    "publish",
			Mutates: true,
			Run: func(ctx context.Context) error {
				payload, err := json.Marshal(domain.TransportCreated{
					TransportID: t.ID,
					StoreName:   t.StoreName,
					Items:       t.Items,
				})
				if err != nil {
					return err
				}
				return s.publisher.Publish(ctx, "TransportCreated", t.ID, payload)
			},
		},
	}

	if err := s.runner.Execute(ctx, "transport_create", steps); err != nil {
		return domain.Transport{}, err
	}
	s.log.Info("transport created", "transport_id", t.ID, "store", t.StoreName)
	return t, nil
}

// FinalizeTransport decrements stock for every line item, in list order,
// then archives a snapshot. Decrements applied before a failure stay
// applied; re-invoking with the same payload decrements them again.
func (s *Service) FinalizeTransport(ctx context.Context, t domain.Transport) error {
	if err := validate(t); err != nil {
		return err
	}

	steps := []workflow.Step{
		{
			Name:    "inventory",
			Mutates: true,
			Run: func(ctx context.Context) error {
				lines := make([]catalog.StockLine, len(t.Items))
				for i, item := range t.Items {
					lines[i] = catalog.StockLine{ProductID: item.ProductID, Quantity: item.Quantity}
				}
				applied, err := s.inventory.DecrementAll(ctx, lines)
				if err != nil && applied > 0 {
					return faults.Partial(err)
				}
				return err
			},
		},
		{
			Name:    "archive",
			Mutates: true,
			Run: func(ctx context.Context) error {
				snapshot, err := json.Marshal(t)
				if err != nil {
					return err
				}
				_, err = s.archive.Store(ctx, "transports", snapshot)
				return err
			},
		},
	}

	if err := s.runner.Execute(ctx, "transport_finalize", steps); err != nil {
		return err
	}
	s.log.Info("transport finalized", "transport_id", t.ID, "items", len(t.Items))
	return nil
}

func (s *Service) GetTransport(ctx context.Context, id string) (domain.Transport, error) {
	if id == "" {
		return domain.Transport{}, faults.Validation("transport id is required")
	}
	return s.repo.Get(ctx, id)
}

func validate(t domain.Transport) error {
	if len(t.Items) == 0 {
		return faults.Validation("transport has no line items")
	}
	for i, item := range t.Items {
		if item.ProductID == "" {
			return faults.Validation("line item %d has no product id", i)
		}
		if item.Quantity < 1 {
			return faults.Validation("line item %d has quantity %d", i, item.Quantity)
		}
	}
	return nil
}
