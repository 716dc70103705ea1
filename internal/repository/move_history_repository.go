package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// MoveHistoryRepository stores the append-only status change log.
type MoveHistoryRepository interface {
	Create(ctx context.Context, entry *domain.MoveHistoryEntry) error
	ListByJob(ctx context.Context, jobID string) ([]domain.MoveHistoryEntry, error)
}

type moveHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewMoveHistoryRepository builds repository.
func NewMoveHistoryRepository(pool *pgxpool.Pool) MoveHistoryRepository {
	return &moveHistoryRepository{pool: pool}
}

func (r *moveHistoryRepository) Create(ctx context.Context, entry *domain.MoveHistoryEntry) error {
	const query = `
        INSERT INTO job_move_history (job_id, from_status, to_status, moved_by, via_request)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		entry.JobID,
		entry.FromStatus,
		entry.ToStatus,
		entry.MovedBy,
		entry.ViaRequest,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *moveHistoryRepository) ListByJob(ctx context.Context, jobID string) ([]domain.MoveHistoryEntry, error) {
	const query = `
        SELECT id, job_id, from_status, to_status, moved_by, via_request, created_at
        FROM job_move_history WHERE job_id=$1 ORDER BY created_at ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MoveHistoryEntry
	for rows.Next() {
		var entry domain.MoveHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.JobID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.MovedBy,
			&entry.ViaRequest,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
