package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"shipflow/internal/transport/domain"
	"shipflow/pkg/faults"
)

// Repository persists transports as whole-record JSON overwrites, same
// last-write-wins policy as the order repository.
type Repository struct {
	log         *slog.Logger
	rdb         *goredis.Client
	callTimeout time.Duration
}

func NewRepository(log *slog.Logger, rdb *goredis.Client, callTimeout time.Duration) *Repository {
	return &Repository{log: log, rdb: rdb, callTimeout: callTimeout}
}

func key(id string) string { return "transport:" + id }

func (r *Repository) Put(ctx context.Context, t domain.Transport) error {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, key(t.ID), raw, 0).Err(); err != nil {
		r.log.Error("transport put failed", "transport_id", t.ID, "err", err)
		return faults.Unavailable(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Transport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Transport{}, faults.NotFound("transport %s not found", id)
	}
	if err != nil {
		return domain.Transport{}, faults.Unavailable(err)
	}
	var t domain.Transport
	if err := json.Unmarshal(raw, &t); err != nil {
		return domain.Transport{}, err
	}
	return t, nil
}
