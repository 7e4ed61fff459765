// Package archive stores one durable workflow snapshot per invocation for
// audit and replay. Entries are append-only, keyed by a fresh id per call,
// and never read back by the workflows.
package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"shipflow/pkg/faults"
)

const schema = `
CREATE TABLE IF NOT EXISTS archive_entries (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	log         *slog.Logger
	pool        *pgxpool.Pool
	callTimeout time.Duration
	writes      prometheus.Counter
}

// NewStore prepares the archive table. writes may be nil.
func NewStore(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, callTimeout time.Duration, writes prometheus.Counter) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, err
	}
	return &Store{log: log, pool: pool, callTimeout: callTimeout, writes: writes}, nil
}

// Store appends one snapshot under a freshly generated key and returns the
// key. There is no existence check: keys are unique per call, entries are
// never overwritten.
func (s *Store) Store(ctx context.Context, kind string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	key := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO archive_entries (id, kind, body) VALUES ($1, $2, $3)`,
		key, kind, body)
	if err != nil {
		s.log.Error("archive write failed", "kind", kind, "err", err)
		return "", faults.Unavailable(err)
	}
	if s.writes != nil {
		s.writes.Inc()
	}
	s.log.Info("snapshot archived", "kind", kind, "key", key)
	return key, nil
}
