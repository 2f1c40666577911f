package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 4
	connectBackoff  = 3 * time.Second
)

// NewPool opens the catalog pool and waits for Postgres to answer a ping,
// backing off between attempts so a slow container start doesn't kill the
// server. The pool is kept small: the catalog serves a single admin plus
// background passes, not fan-out traffic.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 8
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 15 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("build pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			log.Println("catalog database connected")
			return pool, nil
		}
		log.Printf("catalog database not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
		if attempt == connectAttempts {
			break
		}
		select {
		case <-time.After(connectBackoff):
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		}
	}

	pool.Close()
	return nil, fmt.Errorf("catalog database unreachable after %d attempts: %w", connectAttempts, err)
}

// Migrate applies docs/schema.sql. The schema is written to be idempotent
// (CREATE TABLE IF NOT EXISTS) so this is safe to run at every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schemaPath string) error {
	b, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", schemaPath, err)
	}

	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
