package board

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// Command is an optimistic mutation: Apply changes local state immediately,
// Commit performs the network call and Rollback restores the pre-Apply state
// when Commit fails.
type Command struct {
	Name     string
	Apply    func()
	Commit   func(ctx context.Context) error
	Rollback func()
}

// RollbackError reports a command whose local change was reverted.
type RollbackError struct {
	Command string
	Err     error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("%s rolled back: %v", e.Command, e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}

// Executor runs commands.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor builds an executor; a nil logger discards output.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Execute applies cmd, commits it and rolls back on failure.
func (e *Executor) Execute(ctx context.Context, cmd Command) error {
	if cmd.Apply != nil {
		cmd.Apply()
	}
	if cmd.Commit == nil {
		return nil
	}
	if err := cmd.Commit(ctx); err != nil {
		if cmd.Rollback != nil {
			cmd.Rollback()
		}
		e.logger.Warn("optimistic update rolled back", zap.String("command", cmd.Name), zap.Error(err))
		return &RollbackError{Command: cmd.Name, Err: err}
	}
	return nil
}

// mutation builds a command that edits one cached job and restores the
// snapshot taken at Apply time on rollback.
func mutation(store *Store, name, jobID string, edit func(*domain.Job), commit func(ctx context.Context) error) Command {
	var snapshot domain.Job
	var applied bool
	return Command{
		Name: name,
		Apply: func() {
			snapshot, applied = store.Mutate(jobID, func(job *domain.Job) {
				edit(job)
				job.UpdatedAt = time.Now()
			})
		},
		Commit: commit,
		Rollback: func() {
			if applied {
				store.Upsert(snapshot)
			}
		},
	}
}

// MoveCommand relocates a card to target and persists the move.
func MoveCommand(store *Store, backend Backend, jobID string, target domain.OnboardingStatus, mode string, onSaved func(domain.Job)) Command {
	return mutation(store, "move", jobID,
		func(job *domain.Job) { job.Status = target },
		func(ctx context.Context) error {
			saved, err := backend.MoveJob(ctx, jobID, target, mode)
			if err != nil {
				return err
			}
			if onSaved != nil {
				onSaved(saved)
			}
			return nil
		})
}

// EditCommentCommand rewrites a comment body.
func EditCommentCommand(store *Store, backend Backend, jobID, commentID, body string) Command {
	return mutation(store, "edit_comment", jobID,
		func(job *domain.Job) {
			for i := range job.Comments {
				if job.Comments[i].ID == commentID {
					job.Comments[i].Body = body
				}
			}
		},
		func(ctx context.Context) error {
			return backend.EditComment(ctx, jobID, commentID, body)
		})
}

// RenameClientCommand changes the client name shown on a job.
func RenameClientCommand(store *Store, backend Backend, jobID, name string) Command {
	return mutation(store, "rename_client", jobID,
		func(job *domain.Job) { job.ClientName = name },
		func(ctx context.Context) error {
			return backend.RenameClient(ctx, jobID, name)
		})
}
