package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrDatabaseNotConfigured is returned when no connection string is available
var ErrDatabaseNotConfigured = errors.New("database not configured")

var schema = []string{`
	CREATE TABLE IF NOT EXISTS catalog_products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		subcategory TEXT NOT NULL DEFAULT '',
		material    TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		price_note  TEXT NOT NULL,
		price_promo DOUBLE PRECISION,
		featured    BOOLEAN NOT NULL DEFAULT false,
		image_url   TEXT NOT NULL DEFAULT '',
		emoji       TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT true,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_products_active ON catalog_products (is_active)`,
	`CREATE TABLE IF NOT EXISTS checkout_orders (
		id           TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		items        JSONB NOT NULL,
		total        DOUBLE PRECISION NOT NULL,
		item_count   INTEGER NOT NULL,
		summary      TEXT NOT NULL,
		whatsapp_url TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checkout_orders_status ON checkout_orders (status, created_at DESC)`,
}

// Open opens a pgx backed connection pool and checks it with a ping
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, ErrDatabaseNotConfigured
	}

	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// Migrate creates the catalog mirror and order tables when missing
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
