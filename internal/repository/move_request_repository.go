package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ErrPendingMoveRequest is returned when a job already has a pending request.
var ErrPendingMoveRequest = errors.New("job already has a pending move request")

// MoveRequestRepository persists move requests.
type MoveRequestRepository interface {
	Create(ctx context.Context, req *domain.MoveRequest) error
	// Update closes a pending request. pgx.ErrNoRows means it was already
	// reviewed.
	Update(ctx context.Context, req *domain.MoveRequest) error
	GetPendingByJob(ctx context.Context, jobID string) (*domain.MoveRequest, error)
	ListPending(ctx context.Context) ([]domain.MoveRequest, error)
}

type moveRequestRepository struct {
	pool *pgxpool.Pool
}

// NewMoveRequestRepository constructs repository.
func NewMoveRequestRepository(pool *pgxpool.Pool) MoveRequestRepository {
	return &moveRequestRepository{pool: pool}
}

const moveRequestColumns = `id, job_id, from_status, to_status, requested_by, state, reviewed_by, review_note, created_at, reviewed_at`

func (r *moveRequestRepository) Create(ctx context.Context, req *domain.MoveRequest) error {
	const query = `
        INSERT INTO move_requests (job_id, from_status, to_status, requested_by, state)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		req.JobID,
		req.FromStatus,
		req.ToStatus,
		req.RequestedBy,
		req.State,
	).Scan(&req.ID, &req.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrPendingMoveRequest
	}
	return err
}

func (r *moveRequestRepository) Update(ctx context.Context, req *domain.MoveRequest) error {
	const query = `
        UPDATE move_requests SET state=$1, reviewed_by=$2, review_note=$3, reviewed_at=$4
        WHERE id=$5 AND state='pending'`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		req.State,
		req.ReviewedBy,
		req.ReviewNote,
		req.ReviewedAt,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *moveRequestRepository) GetPendingByJob(ctx context.Context, jobID string) (*domain.MoveRequest, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+moveRequestColumns+` FROM move_requests WHERE job_id=$1 AND state='pending'`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs, err := scanMoveRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &reqs[0], nil
}

func (r *moveRequestRepository) ListPending(ctx context.Context) ([]domain.MoveRequest, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+moveRequestColumns+` FROM move_requests WHERE state='pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMoveRequests(rows)
}

func scanMoveRequests(rows pgx.Rows) ([]domain.MoveRequest, error) {
	var result []domain.MoveRequest
	for rows.Next() {
		var req domain.MoveRequest
		if err := rows.Scan(
			&req.ID,
			&req.JobID,
			&req.FromStatus,
			&req.ToStatus,
			&req.RequestedBy,
			&req.State,
			&req.ReviewedBy,
			&req.ReviewNote,
			&req.CreatedAt,
			&req.ReviewedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
