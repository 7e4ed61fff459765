package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"shipflow/internal/order/domain"
	"shipflow/pkg/faults"
)

// Repository persists orders as whole-record JSON values. Writes are plain
// overwrites with no concurrency token: concurrent writers on the same id
// race and the last write wins, which the workflow accepts because ids
// have a single writer in practice.
type Repository struct {
	log         *slog.Logger
	rdb         *goredis.Client
	callTimeout time.Duration
}

func NewRepository(log *slog.Logger, rdb *goredis.Client, callTimeout time.Duration) *Repository {
	return &Repository{log: log, rdb: rdb, callTimeout: callTimeout}
}

func key(id string) string { return "order:" + id }

func (r *Repository) Put(ctx context.Context, o domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, key(o.ID), raw, 0).Err(); err != nil {
		r.log.Error("order put failed", "order_id", o.ID, "err", err)
		return faults.Unavailable(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Order{}, faults.NotFound("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, faults.Unavailable(err)
	}
	var o domain.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
