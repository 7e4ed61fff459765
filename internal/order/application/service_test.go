package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"shipflow/internal/order/domain"
	"shipflow/pkg/faults"
	"shipflow/pkg/workflow"
)

type fakeCatalog struct {
	names map[string]string
	fail  map[string]error
}

func (f *fakeCatalog) ResolveName(_ context.Context, productID string) (string, error) {
	if err, ok := f.fail[productID]; ok {
		return "", err
	}
	name, ok := f.names[productID]
	if !ok {
		return "", faults.NotFound("product %s not found", productID)
	}
	return name, nil
}

type fakeRepo struct {
	puts []domain.Order
	err  error
}

func (f *fakeRepo) Put(_ context.Context, o domain.Order) error {
	if f.err != nil {
		return f.err
	}
	f.puts = append(f.puts, o)
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (domain.Order, error) {
	for _, o := range f.puts {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, faults.NotFound("order %s not found", id)
}

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, _, _ string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeArchive struct {
	bodies [][]byte
	err    error
}

func (f *fakeArchive) Store(_ context.Context, _ string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bodies = append(f.bodies, body)
	return "key-1", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type env struct {
	catalog   *fakeCatalog
	repo      *fakeRepo
	publisher *fakePublisher
	archive   *fakeArchive
	service   *Service
}

func newEnv(enricher Enricher) *env {
	e := &env{
		catalog: &fakeCatalog{
			names: map[string]string{"P1": "Widget", "P2": "Gadget"},
			fail:  map[string]error{},
		},
		repo:      &fakeRepo{},
		publisher: &fakePublisher{},
		archive:   &fakeArchive{},
	}
	log := testLogger()
	e.service = NewService(log, workflow.NewRunner(log), e.catalog, e.repo, e.publisher, e.archive, enricher)
	return e
}

func twoItemOrder() domain.Order {
	return domain.Order{
		ID:         "o-1",
		CarrierRef: "carrier-9",
		Items: []domain.LineItem{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P2", Quantity: 1},
		},
	}
}

func enrichers() map[string]Enricher {
	return map[string]Enricher{
		"sequential": SequentialEnricher{},
		"concurrent": ConcurrentEnricher{},
	}
}

// Happy path: both lookups resolve; the persisted record carries both
// names, one event is published, one snapshot archived.
func TestCreateOrderSuccess(t *testing.T) {
	for name, enricher := range enrichers() {
		t.Run(name, func(t *testing.T) {
			e := newEnv(enricher)
			created, err := e.service.CreateOrder(context.Background(), twoItemOrder())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(e.repo.puts) != 1 {
				t.Fatalf("expected one store write, got %d", len(e.repo.puts))
			}
			persisted := e.repo.puts[0]
			// Every persisted line item has a resolved name.
			for i, item := range persisted.Items {
				if item.ProductName == "" {
					t.Fatalf("item %d persisted without product name", i)
				}
			}
			if persisted.Items[0].ProductName != "Widget" || persisted.Items[1].ProductName != "Gadget" {
				t.Fatalf("names assigned to wrong items: %+v", persisted.Items)
			}
			if len(e.publisher.payloads) != 1 {
				t.Fatalf("expected one publish, got %d", len(e.publisher.payloads))
			}
			if len(e.archive.bodies) != 1 {
				t.Fatalf("expected one archive write, got %d", len(e.archive.bodies))
			}
			if created.ID != "o-1" {
				t.Fatalf("unexpected order id %q", created.ID)
			}
		})
	}
}

// One lookup fails; nothing is persisted, published, or
// archived, and the failure names the enrichment step.
func TestCreateOrderEnrichmentFailureWritesNothing(t *testing.T) {
	for name, enricher := range enrichers() {
		t.Run(name, func(t *testing.T) {
			e := newEnv(enricher)
			e.catalog.fail["P2"] = faults.Unavailable(errors.New("catalog down"))

			_, err := e.service.CreateOrder(context.Background(), twoItemOrder())
			if err == nil {
				t.Fatal("expected error")
			}
			if faults.StepOf(err) != "enrich" {
				t.Fatalf("expected failure at enrich, got %q", faults.StepOf(err))
			}
			if faults.KindOf(err) != faults.KindUnavailable {
				t.Fatalf("nothing was mutated, expected unavailable, got %v", faults.KindOf(err))
			}
			if len(e.repo.puts) != 0 || len(e.publisher.payloads) != 0 || len(e.archive.bodies) != 0 {
				t.Fatalf("side effects after enrichment failure: puts=%d publishes=%d archives=%d",
					len(e.repo.puts), len(e.publisher.payloads), len(e.archive.bodies))
			}
		})
	}
}

// No event is published unless the store write succeeded first.
func TestCreateOrderPersistFailureSuppressesPublish(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	e.repo.err = faults.Unavailable(errors.New("store down"))

	_, err := e.service.CreateOrder(context.Background(), twoItemOrder())
	if faults.StepOf(err) != "persist" {
		t.Fatalf("expected failure at persist, got %v", err)
	}
	if len(e.publisher.payloads) != 0 || len(e.archive.bodies) != 0 {
		t.Fatal("publish or archive happened despite persist failure")
	}
}

// Publish failure after a successful persist: the record stays, the error
// classifies as partial completion, and no delete is issued.
func TestCreateOrderPublishFailureLeavesRecord(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	e.publisher.err = faults.Unavailable(errors.New("broker down"))

	_, err := e.service.CreateOrder(context.Background(), twoItemOrder())
	if faults.StepOf(err) != "publish" {
		t.Fatalf("expected failure at publish, got %v", err)
	}
	if faults.KindOf(err) != faults.KindPartial {
		t.Fatalf("expected partial_completion, got %v", faults.KindOf(err))
	}
	if len(e.repo.puts) != 1 {
		t.Fatal("persisted record should not be retracted")
	}
	if len(e.archive.bodies) != 0 {
		t.Fatal("archive should not run after publish failure")
	}
}

// Archive failure after publish: event and record stay intact.
func TestCreateOrderArchiveFailureLeavesPublish(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	e.archive.err = faults.Unavailable(errors.New("archive down"))

	_, err := e.service.CreateOrder(context.Background(), twoItemOrder())
	if faults.StepOf(err) != "archive" {
		t.Fatalf("expected failure at archive, got %v", err)
	}
	if faults.KindOf(err) != faults.KindPartial {
		t.Fatalf("expected partial_completion, got %v", faults.KindOf(err))
	}
	if len(e.repo.puts) != 1 || len(e.publisher.payloads) != 1 {
		t.Fatal("persisted record and published event must remain")
	}
}

func TestCreateOrderGeneratesIDWhenMissing(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	o := twoItemOrder()
	o.ID = ""
	created, err := e.service.CreateOrder(context.Background(), o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated order id")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	cases := []domain.Order{
		{ID: "o-1"},
		{ID: "o-1", Items: []domain.LineItem{{ProductID: "", Quantity: 1}}},
		{ID: "o-1", Items: []domain.LineItem{{ProductID: "P1", Quantity: 0}}},
	}
	for i, o := range cases {
		_, err := e.service.CreateOrder(context.Background(), o)
		if faults.KindOf(err) != faults.KindValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if len(e.repo.puts) != 0 {
		t.Fatal("invalid orders must not be persisted")
	}
}

func TestCreateOrderEventCarriesFullRecord(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	if _, err := e.service.CreateOrder(context.Background(), twoItemOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var event domain.OrderCreated
	if err := json.Unmarshal(e.publisher.payloads[0], &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.OrderID != "o-1" || event.CarrierRef != "carrier-9" || len(event.Items) != 2 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Items[0].ProductName != "Widget" {
		t.Fatal("event items should be enriched")
	}
}

func TestGetOrder(t *testing.T) {
	e := newEnv(SequentialEnricher{})
	if _, err := e.service.CreateOrder(context.Background(), twoItemOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, err := e.service.GetOrder(context.Background(), "o-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != "o-1" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if _, err := e.service.GetOrder(context.Background(), "missing"); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
