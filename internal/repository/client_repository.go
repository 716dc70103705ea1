package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ClientRepository persists onboarded clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository constructs repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, client_number, name, email, plan_type, password_hash, dashboard_manager, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (client_number, name, email, plan_type, password_hash, dashboard_manager)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.ClientNumber,
		client.Name,
		client.Email,
		client.PlanType,
		client.PasswordHash,
		client.DashboardManager,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, plan_type=$2, password_hash=$3, dashboard_manager=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		client.Name,
		client.PlanType,
		client.PasswordHash,
		client.DashboardManager,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var c domain.Client
	err := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE LOWER(email)=$1`, strings.ToLower(email)).Scan(
		&c.ID,
		&c.ClientNumber,
		&c.Name,
		&c.Email,
		&c.PlanType,
		&c.PasswordHash,
		&c.DashboardManager,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY client_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(
			&c.ID,
			&c.ClientNumber,
			&c.Name,
			&c.Email,
			&c.PlanType,
			&c.PasswordHash,
			&c.DashboardManager,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
