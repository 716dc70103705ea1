package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// JobFilter captures board listing parameters.
type JobFilter struct {
	Statuses      []domain.OnboardingStatus
	PlanTypes     []domain.PlanType
	ClientEmail   *string
	AssigneeEmail *string
	UpdatedFrom   *time.Time
	Limit         int
	Offset        int
}

// StatusCount is a per-status job tally.
type StatusCount struct {
	Status domain.OnboardingStatus
	Count  int
}

// JobRepository encapsulates onboarding job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, job_number, client_email, client_name, client_number, plan_type, status,
               csm_email, resume_maker_email, linkedin_member_email, dashboard_manager,
               linkedin_phase_started, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO onboarding_jobs (job_number, client_email, client_name, client_number, plan_type, status,
            csm_email, resume_maker_email, linkedin_member_email, dashboard_manager, linkedin_phase_started)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		job.JobNumber,
		job.ClientEmail,
		job.ClientName,
		job.ClientNumber,
		job.PlanType,
		job.Status,
		job.CSMEmail,
		job.ResumeMakerEmail,
		job.LinkedInMemberEmail,
		job.DashboardManager,
		job.LinkedInPhaseStarted,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE onboarding_jobs SET client_name=$1, plan_type=$2, status=$3, csm_email=$4,
            resume_maker_email=$5, linkedin_member_email=$6, dashboard_manager=$7,
            linkedin_phase_started=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		job.ClientName,
		job.PlanType,
		job.Status,
		job.CSMEmail,
		job.ResumeMakerEmail,
		job.LinkedInMemberEmail,
		job.DashboardManager,
		job.LinkedInPhaseStarted,
		job.ID,
	).Scan(&job.UpdatedAt)
	return err
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM onboarding_jobs WHERE id=$1`
	rows, err := conn(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &jobs[0], nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.PlanTypes) > 0 {
		placeholders := make([]string, len(filter.PlanTypes))
		for i, plan := range filter.PlanTypes {
			args = append(args, plan)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("plan_type IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ClientEmail != nil {
		args = append(args, strings.ToLower(*filter.ClientEmail))
		clauses = append(clauses, fmt.Sprintf("LOWER(client_email)=$%d", len(args)))
	}
	if filter.AssigneeEmail != nil {
		args = append(args, strings.ToLower(*filter.AssigneeEmail))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(csm_email)=%s OR LOWER(resume_maker_email)=%s OR LOWER(linkedin_member_email)=%s)",
			placeholder, placeholder, placeholder))
	}
	if filter.UpdatedFrom != nil {
		args = append(args, *filter.UpdatedFrom)
		clauses = append(clauses, fmt.Sprintf("updated_at >= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM onboarding_jobs WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		jobColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM onboarding_jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.JobNumber,
			&job.ClientEmail,
			&job.ClientName,
			&job.ClientNumber,
			&job.PlanType,
			&job.Status,
			&job.CSMEmail,
			&job.ResumeMakerEmail,
			&job.LinkedInMemberEmail,
			&job.DashboardManager,
			&job.LinkedInPhaseStarted,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
