package board

import (
	"context"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// Backend is the subset of the portal API the board drives.
type Backend interface {
	ListJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	MoveJob(ctx context.Context, id string, target domain.OnboardingStatus, mode string) (domain.Job, error)
	RequestMove(ctx context.Context, id string, target domain.OnboardingStatus) (domain.MoveRequest, error)
	EditComment(ctx context.Context, jobID, commentID, body string) error
	RenameClient(ctx context.Context, jobID, name string) error
	Roles(ctx context.Context) (domain.RoleDirectory, error)
}
