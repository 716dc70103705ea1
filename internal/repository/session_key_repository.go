package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// SessionKeyRepository persists admin-issued session keys.
type SessionKeyRepository interface {
	Create(ctx context.Context, key *domain.SessionKey) error
	ListByEmail(ctx context.Context, email string) ([]domain.SessionKey, error)
	ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]domain.SessionKey, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
	RevokeAll(ctx context.Context, email string) error
}

type sessionKeyRepository struct {
	pool *pgxpool.Pool
}

// NewSessionKeyRepository constructs repository.
func NewSessionKeyRepository(pool *pgxpool.Pool) SessionKeyRepository {
	return &sessionKeyRepository{pool: pool}
}

const sessionKeyColumns = `id, user_email, key_hash, created_by, expires_at, last_used_at, revoked, created_at`

func (r *sessionKeyRepository) Create(ctx context.Context, key *domain.SessionKey) error {
	const query = `
        INSERT INTO session_keys (user_email, key_hash, created_by, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		key.UserEmail,
		key.KeyHash,
		key.CreatedBy,
		key.ExpiresAt,
	).Scan(&key.ID, &key.CreatedAt)
}

func (r *sessionKeyRepository) ListByEmail(ctx context.Context, email string) ([]domain.SessionKey, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionKeyColumns+` FROM session_keys
        WHERE LOWER(user_email)=$1 ORDER BY created_at DESC`, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionKeys(rows)
}

func (r *sessionKeyRepository) ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]domain.SessionKey, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionKeyColumns+` FROM session_keys
        WHERE LOWER(user_email)=$1 AND NOT revoked AND expires_at > $2 ORDER BY created_at DESC`, strings.ToLower(email), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionKeys(rows)
}

func (r *sessionKeyRepository) MarkUsed(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE session_keys SET last_used_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sessionKeyRepository) RevokeAll(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `UPDATE session_keys SET revoked=TRUE WHERE LOWER(user_email)=$1`, strings.ToLower(email))
	return err
}

func scanSessionKeys(rows pgx.Rows) ([]domain.SessionKey, error) {
	var result []domain.SessionKey
	for rows.Next() {
		var key domain.SessionKey
		if err := rows.Scan(
			&key.ID,
			&key.UserEmail,
			&key.KeyHash,
			&key.CreatedBy,
			&key.ExpiresAt,
			&key.LastUsedAt,
			&key.Revoked,
			&key.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, key)
	}
	return result, rows.Err()
}
