package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
	"github.com/adousti/vigil/internal/repo"
)

var _ repo.SnapshotStore = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS status_snapshot (
  id         INTEGER PRIMARY KEY CHECK (id = 1),
  report     JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store keeps the latest snapshot in a single-row table, upserted each cycle.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Save(ctx context.Context, r *domain.StatusReport) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO status_snapshot (id, report, updated_at)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE
		    SET report = EXCLUDED.report, updated_at = EXCLUDED.updated_at`,
		body, r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context) (*domain.StatusReport, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM status_snapshot WHERE id = 1`).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	var r domain.StatusReport
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &r, nil
}
