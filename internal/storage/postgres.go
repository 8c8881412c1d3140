package storage

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"jralmeda/pcxscraper/internal/extract"
)

// ProductStore persists merged product records to Postgres
type ProductStore struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the products table exists
func New(ctx context.Context, databaseURL string) (*ProductStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scraped_products (
			link        TEXT PRIMARY KEY,
			name        TEXT,
			price_php   NUMERIC,
			specs       JSONB,
			scraped_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &ProductStore{pool: pool}, nil
}

// Save upserts a record by its link. Records without a link are stored as
// new rows keyed by name to keep partial records addressable.
func (s *ProductStore) Save(ctx context.Context, record extract.ProductRecord) error {
	specs, err := json.Marshal(record.Specs)
	if err != nil {
		return err
	}

	key := record.Link
	if key == "" {
		key = record.Name
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO scraped_products (link, name, price_php, specs, scraped_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (link) DO UPDATE
		SET name = EXCLUDED.name,
		    price_php = EXCLUDED.price_php,
		    specs = EXCLUDED.specs,
		    scraped_at = EXCLUDED.scraped_at
	`, key, record.Name, record.PricePHP, specs)
	return err
}

// Close releases the connection pool
func (s *ProductStore) Close() {
	s.pool.Close()
}
