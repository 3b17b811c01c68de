// Package store is the persistence collaborator: visit-level upserts keyed by
// the same (customer, day) key the aggregator uses, so repeated ingestion of
// the same workbook is idempotent at the storage layer. The engine never
// writes here directly.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"incentive-service/internal/incentive/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	customer_key     text NOT NULL,
	date_key         text NOT NULL,
	customer_id      text NOT NULL,
	customer_name    text NOT NULL DEFAULT '',
	date_iso         date,
	departments      text[] NOT NULL DEFAULT '{}',
	department_count int  NOT NULL DEFAULT 0,
	salespeople      text[] NOT NULL DEFAULT '{}',
	vouchers         text[] NOT NULL DEFAULT '{}',
	incentive        int  NOT NULL DEFAULT 0,
	updated_at       timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (customer_key, date_key)
)`

const upsertVisit = `
INSERT INTO visits
	(customer_key, date_key, customer_id, customer_name, date_iso,
	 departments, department_count, salespeople, vouchers, incentive, updated_at)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, $6, $7, $8, $9, $10, now())
ON CONFLICT (customer_key, date_key) DO UPDATE SET
	customer_id      = EXCLUDED.customer_id,
	customer_name    = CASE WHEN EXCLUDED.customer_name <> '' THEN EXCLUDED.customer_name ELSE visits.customer_name END,
	date_iso         = EXCLUDED.date_iso,
	departments      = EXCLUDED.departments,
	department_count = EXCLUDED.department_count,
	salespeople      = EXCLUDED.salespeople,
	vouchers         = EXCLUDED.vouchers,
	incentive        = EXCLUDED.incentive,
	updated_at       = now()`

type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// UpsertVisits writes one parse pass's visit aggregates in a single batch.
func (s *Store) UpsertVisits(ctx context.Context, visits []model.VisitRecord) error {
	if len(visits) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range visits {
		batch.Queue(upsertVisit,
			v.CustomerKey, v.DateKey, v.CustomerID, v.CustomerName, v.DateISO,
			v.Departments, v.DepartmentCount, v.Salespeople, v.Vouchers, v.Incentive)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range visits {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("store upsert: %w", err)
		}
	}
	return nil
}
