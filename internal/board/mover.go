package board

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/pipeline"
)

// ErrJobNotLoaded is returned when a move targets a job the store lacks.
var ErrJobNotLoaded = errors.New("job not loaded")

// Viewer is the signed-in user driving the board.
type Viewer struct {
	Email   string
	Role    domain.Role
	SubRole domain.SubRole
}

// VisibleColumns returns the statuses the viewer may see.
func (v Viewer) VisibleColumns() []domain.OnboardingStatus {
	return pipeline.VisibleColumnsForUser(v.Role, v.SubRole)
}

// MoveOutcome describes what a move produced.
type MoveOutcome struct {
	Decision pipeline.Decision
	Job      domain.Job
	Request  *domain.MoveRequest
}

// Mover implements the drop/"move to" protocol: gate locally, then either
// relocate optimistically or file a move request.
type Mover struct {
	store    *Store
	backend  Backend
	executor *Executor
	cache    *DetailCache
	viewer   Viewer
	logger   *zap.Logger
}

// NewMover wires a mover. cache may be nil.
func NewMover(store *Store, backend Backend, executor *Executor, cache *DetailCache, viewer Viewer, logger *zap.Logger) *Mover {
	if logger == nil {
		logger = zap.NewNop()
	}
	if executor == nil {
		executor = NewExecutor(logger)
	}
	return &Mover{store: store, backend: backend, executor: executor, cache: cache, viewer: viewer, logger: logger}
}

// Targets lists the action-sheet destinations for a cached job.
func (m *Mover) Targets(jobID string) ([]domain.OnboardingStatus, error) {
	job, ok := m.store.Job(jobID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotLoaded, jobID)
	}
	return pipeline.MoveTargets(job, m.viewer.Role, m.viewer.SubRole), nil
}

// Move gates and performs a status change. Rejections from the pipeline are
// returned before any network call.
func (m *Mover) Move(ctx context.Context, jobID string, target domain.OnboardingStatus, mode pipeline.Mode) (MoveOutcome, error) {
	job, ok := m.store.Job(jobID)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("%w: %s", ErrJobNotLoaded, jobID)
	}

	decision, err := pipeline.Decide(pipeline.MoveAttempt{
		Plan:    job.PlanType,
		Current: job.Status,
		Target:  target,
		Role:    m.viewer.Role,
		SubRole: m.viewer.SubRole,
		Mode:    mode,
		Forked:  job.LinkedInPhaseStarted,
	})
	if err != nil {
		return MoveOutcome{}, err
	}

	switch decision {
	case pipeline.DecisionDirect:
		var saved domain.Job
		cmd := MoveCommand(m.store, m.backend, jobID, target, string(mode), func(j domain.Job) { saved = j })
		if err := m.executor.Execute(ctx, cmd); err != nil {
			return MoveOutcome{}, err
		}
		if saved.ID != "" {
			m.store.Upsert(saved)
		} else if current, ok := m.store.Job(jobID); ok {
			saved = current
		}
		m.invalidate(jobID)
		return MoveOutcome{Decision: decision, Job: saved}, nil
	default:
		req, err := m.backend.RequestMove(ctx, jobID, target)
		if err != nil {
			return MoveOutcome{}, err
		}
		m.store.Mutate(jobID, func(j *domain.Job) { j.PendingMoveRequest = &req })
		m.invalidate(jobID)
		current, _ := m.store.Job(jobID)
		m.logger.Info("move request filed", zap.String("job_id", jobID), zap.String("target", string(target)))
		return MoveOutcome{Decision: decision, Job: current, Request: &req}, nil
	}
}

// EditComment rewrites a comment optimistically.
func (m *Mover) EditComment(ctx context.Context, jobID, commentID, body string) error {
	if err := m.executor.Execute(ctx, EditCommentCommand(m.store, m.backend, jobID, commentID, body)); err != nil {
		return err
	}
	m.invalidate(jobID)
	return nil
}

// RenameClient changes the client name optimistically.
func (m *Mover) RenameClient(ctx context.Context, jobID, name string) error {
	if err := m.executor.Execute(ctx, RenameClientCommand(m.store, m.backend, jobID, name)); err != nil {
		return err
	}
	m.invalidate(jobID)
	return nil
}

func (m *Mover) invalidate(jobID string) {
	if m.cache != nil {
		m.cache.Invalidate(jobID)
	}
}
