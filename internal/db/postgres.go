// Package db opens and verifies the service's backing connections.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The pool serves full-collection reloads plus one connection parked in
// LISTEN mode, so it stays small but must never shrink to a single slot.
const (
	pgMinConns = 2
	pgMaxConns = 8
)

// NewPostgresPool builds a pgx pool sized for the listing workload and
// verifies it with a ping before handing it out.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	cfg.MinConns = pgMinConns
	cfg.MaxConns = pgMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	return pool, nil
}
