package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Counter names.
const (
	CounterClientNumber = "client_number"
	CounterJobNumber    = "job_number"
)

// CounterRepository hands out monotonic sequence values by name.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository constructs repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

// Next increments and returns the named counter, creating it at 1.
func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO counters (name, value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
        RETURNING value`
	var value int64
	err := r.pool.QueryRow(ctx, query, name).Scan(&value)
	return value, err
}
