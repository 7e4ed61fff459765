// Package application is a thin passthrough for book records: one entity,
// one store, no workflow semantics beyond the record round-tripping.
package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"shipflow/internal/book/domain"
	"shipflow/pkg/faults"
)

type Repository interface {
	Put(ctx context.Context, b domain.Book) error
	Get(ctx context.Context, id string) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Book, error)
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	if b.Title == "" {
		return domain.Book{}, faults.Validation("book title is required")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Book, error) {
	return s.repo.Get(ctx, id)
}

// Update overwrites the whole record; there is no partial update.
func (s *Service) Update(ctx context.Context, id string, b domain.Book) (domain.Book, error) {
	if id == "" {
		return domain.Book{}, faults.Validation("book id is required")
	}
	b.ID = id
	if _, err := s.repo.Get(ctx, id); err != nil {
		return domain.Book{}, err
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.List(ctx)
}
