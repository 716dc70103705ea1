package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ApplicationFilter narrows application queries.
type ApplicationFilter struct {
	ClientEmail   *string
	OperatorEmail *string
	From          *time.Time
	To            *time.Time
}

// ApplicationRepository persists job applications submitted for clients.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository constructs repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (client_email, operator_email, company, position, status, applied_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		app.ClientEmail,
		app.OperatorEmail,
		app.Company,
		app.Position,
		app.Status,
		app.AppliedAt,
	).Scan(&app.ID, &app.CreatedAt)
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientEmail != nil {
		args = append(args, strings.ToLower(*filter.ClientEmail))
		clauses = append(clauses, fmt.Sprintf("LOWER(client_email)=$%d", len(args)))
	}
	if filter.OperatorEmail != nil {
		args = append(args, strings.ToLower(*filter.OperatorEmail))
		clauses = append(clauses, fmt.Sprintf("LOWER(operator_email)=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("applied_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("applied_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT id, client_email, operator_email, company, position, status, applied_at, created_at
        FROM applications WHERE %s ORDER BY applied_at ASC`, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.ClientEmail,
			&app.OperatorEmail,
			&app.Company,
			&app.Position,
			&app.Status,
			&app.AppliedAt,
			&app.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}
