package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// Mode selects how strictly adjacency is enforced for privileged movers.
type Mode string

const (
	// ModeAdjacent is the drag-and-drop path: only direct successors.
	ModeAdjacent Mode = "adjacent"
	// ModeJump is the "move to" action sheet: any plan-allowed visible stage.
	ModeJump Mode = "jump"
)

// ParseMode maps a raw mode; empty means ModeAdjacent.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeAdjacent:
		return ModeAdjacent, nil
	case ModeJump:
		return ModeJump, nil
	default:
		return "", fmt.Errorf("unknown move mode %q", raw)
	}
}

// Decision is the outcome of an accepted move attempt.
type Decision int

const (
	// DecisionDirect applies the move immediately.
	DecisionDirect Decision = iota + 1
	// DecisionRequest files a move request for admin or team lead review.
	DecisionRequest
)

func (d Decision) String() string {
	switch d {
	case DecisionDirect:
		return "direct"
	case DecisionRequest:
		return "request"
	default:
		return "unknown"
	}
}

// MoveAttempt describes a proposed status change.
type MoveAttempt struct {
	Plan    domain.PlanType
	Current domain.OnboardingStatus
	Target  domain.OnboardingStatus
	Role    domain.Role
	SubRole domain.SubRole
	Mode    Mode
	// Forked marks a resume_approved job whose LinkedIn phase has started;
	// its card also sits in linkedin_in_progress.
	Forked  bool
}

var (
	ErrUnknownStatus = errors.New("unknown onboarding status")
	ErrSameStatus    = errors.New("job is already in the target status")
)

// PlanMismatchError rejects a target the plan does not include.
type PlanMismatchError struct {
	Plan    domain.PlanType
	Target  domain.OnboardingStatus
	Allowed []domain.OnboardingStatus
}

func (e *PlanMismatchError) Error() string {
	return fmt.Sprintf("plan %s does not support %s (allowed: %s)",
		e.Plan, e.Target, strings.Join(domain.StatusStrings(e.Allowed), ", "))
}

// PermissionError rejects a move outside the role's own statuses.
type PermissionError struct {
	Role    domain.Role
	SubRole domain.SubRole
	Allowed []domain.OnboardingStatus
}

func (e *PermissionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("role %s has no board access", e.Role)
	}
	return fmt.Sprintf("role %s may only work with: %s", e.Role, strings.Join(domain.StatusStrings(e.Allowed), ", "))
}

// InvalidTransitionError rejects a direct move that skips pipeline order.
type InvalidTransitionError struct {
	From    domain.OnboardingStatus
	To      domain.OnboardingStatus
	Allowed []domain.OnboardingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}

// Decide gates a move attempt. Plan membership is checked first so that a
// target outside the plan is rejected for every role. Privileged roles then
// get a direct move (adjacent successors only unless Mode is ModeJump);
// everyone else gets a move request, provided both stages are on their board.
// Adjacency is not enforced for requests: the reviewer applies them.
func Decide(attempt MoveAttempt) (Decision, error) {
	if !attempt.Target.Valid() || !attempt.Current.Valid() {
		return 0, ErrUnknownStatus
	}
	if attempt.Target == attempt.Current {
		return 0, ErrSameStatus
	}
	if !PlanAllows(attempt.Plan, attempt.Target) {
		return 0, &PlanMismatchError{
			Plan:    attempt.Plan,
			Target:  attempt.Target,
			Allowed: AllowedStatusesForPlan(attempt.Plan),
		}
	}

	if CanUserMoveDirectly(attempt.Role) {
		if attempt.Mode != ModeJump && !IsValidTransition(attempt.Current, attempt.Target) {
			return 0, &InvalidTransitionError{
				From:    attempt.Current,
				To:      attempt.Target,
				Allowed: AllowedNextStatuses(attempt.Current),
			}
		}
		return DecisionDirect, nil
	}

	visible := VisibleColumnsForUser(attempt.Role, attempt.SubRole)
	if !contains(visible, attempt.Target) || !inScope(visible, attempt.Current, attempt.Forked) {
		return 0, &PermissionError{Role: attempt.Role, SubRole: attempt.SubRole, Allowed: visible}
	}
	return DecisionRequest, nil
}
