package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"shipflow/internal/book/domain"
	"shipflow/pkg/faults"
)

const prefix = "book:"

type Repository struct {
	log         *slog.Logger
	rdb         *goredis.Client
	callTimeout time.Duration
}

func NewRepository(log *slog.Logger, rdb *goredis.Client, callTimeout time.Duration) *Repository {
	return &Repository{log: log, rdb: rdb, callTimeout: callTimeout}
}

func (r *Repository) Put(ctx context.Context, b domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, prefix+b.ID, raw, 0).Err(); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.rdb.Get(ctx, prefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Book{}, faults.NotFound("book %s not found", id)
	}
	if err != nil {
		return domain.Book{}, faults.Unavailable(err)
	}
	var b domain.Book
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	n, err := r.rdb.Del(ctx, prefix+id).Result()
	if err != nil {
		return faults.Unavailable(err)
	}
	if n == 0 {
		return faults.NotFound("book %s not found", id)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	books := []domain.Book{}
	iter := r.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := r.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, goredis.Nil) {
			// Deleted between scan and get; skip.
			continue
		}
		if err != nil {
			return nil, faults.Unavailable(err)
		}
		var b domain.Book
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := iter.Err(); err != nil {
		return nil, faults.Unavailable(err)
	}
	return books, nil
}
