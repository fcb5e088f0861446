package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the binary needs when they are missing.
// Proper migration tooling sits outside this repo.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL,
			picture_url TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			quantity_in_stock INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_methods (
			id SERIAL PRIMARY KEY,
			short_name TEXT NOT NULL,
			delivery_time TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			buyer_email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			ship_name TEXT NOT NULL DEFAULT '',
			ship_line1 TEXT NOT NULL DEFAULT '',
			ship_line2 TEXT NOT NULL DEFAULT '',
			ship_city TEXT NOT NULL DEFAULT '',
			ship_state TEXT NOT NULL DEFAULT '',
			ship_postal_code TEXT NOT NULL DEFAULT '',
			ship_country TEXT NOT NULL DEFAULT '',
			delivery_method_id INT NOT NULL,
			subtotal_cents BIGINT NOT NULL,
			shipping_cents BIGINT NOT NULL,
			card_brand TEXT NOT NULL DEFAULT '',
			card_last4 TEXT NOT NULL DEFAULT '',
			card_exp_month INT NOT NULL DEFAULT 0,
			card_exp_year INT NOT NULL DEFAULT 0,
			payment_intent_id TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id INT NOT NULL,
			product_name TEXT NOT NULL,
			picture_url TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL,
			quantity INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outbox (
			id BIGSERIAL PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload JSONB NOT NULL,
			headers JSONB,
			traceparent TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			relay_id TEXT,
			lease_until TIMESTAMPTZ,
			retry_count INT NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS outbox_pending_idx ON outbox (status, id)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
