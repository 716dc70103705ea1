package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// CommentRepository persists job comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.Comment, error)
	ListUnresolvedIssues(ctx context.Context, limit int) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, job_id, author_email, author_name, body, mentions, is_issue, resolved,
               resolved_by, resolved_at, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO job_comments (job_id, author_email, author_name, body, mentions, is_issue)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	mentions := comment.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		comment.JobID,
		comment.AuthorEmail,
		comment.AuthorName,
		comment.Body,
		mentions,
		comment.IsIssue,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE job_comments SET body=$1, mentions=$2, is_issue=$3, resolved=$4, resolved_by=$5,
            resolved_at=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	mentions := comment.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		comment.Body,
		mentions,
		comment.IsIssue,
		comment.Resolved,
		comment.ResolvedBy,
		comment.ResolvedAt,
		comment.ID,
	).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM job_comments WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &comments[0], nil
}

func (r *commentRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM job_comments WHERE job_id=$1 ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) ListUnresolvedIssues(ctx context.Context, limit int) ([]domain.Comment, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM job_comments
        WHERE is_issue AND NOT resolved ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	var result []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.JobID,
			&c.AuthorEmail,
			&c.AuthorName,
			&c.Body,
			&c.Mentions,
			&c.IsIssue,
			&c.Resolved,
			&c.ResolvedBy,
			&c.ResolvedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
