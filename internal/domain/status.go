package domain

import (
	"fmt"
	"strings"
)

// OnboardingStatus enumerates the pipeline stages a job can occupy.
type OnboardingStatus string

const (
	StatusResumeInProgress       OnboardingStatus = "resume_in_progress"
	StatusResumeDraftDone        OnboardingStatus = "resume_draft_done"
	StatusResumeInReview         OnboardingStatus = "resume_in_review"
	StatusResumeApproved         OnboardingStatus = "resume_approved"
	StatusLinkedInInProgress     OnboardingStatus = "linkedin_in_progress"
	StatusLinkedInDone           OnboardingStatus = "linkedin_done"
	StatusCoverLetterInProgress  OnboardingStatus = "cover_letter_in_progress"
	StatusCoverLetterDone        OnboardingStatus = "cover_letter_done"
	StatusApplicationsReady      OnboardingStatus = "applications_ready"
	StatusApplicationsInProgress OnboardingStatus = "applications_in_progress"
	StatusCompleted              OnboardingStatus = "completed"
)

// AllStatuses lists every stage in pipeline order.
var AllStatuses = []OnboardingStatus{
	StatusResumeInProgress,
	StatusResumeDraftDone,
	StatusResumeInReview,
	StatusResumeApproved,
	StatusLinkedInInProgress,
	StatusLinkedInDone,
	StatusCoverLetterInProgress,
	StatusCoverLetterDone,
	StatusApplicationsReady,
	StatusApplicationsInProgress,
	StatusCompleted,
}

// Index returns the position of the status in pipeline order, or -1.
func (s OnboardingStatus) Index() int {
	for i, candidate := range AllStatuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known stages.
func (s OnboardingStatus) Valid() bool {
	return s.Index() >= 0
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (OnboardingStatus, error) {
	status := OnboardingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown onboarding status %q", raw)
	}
	return status, nil
}

// StatusStrings converts statuses for error details and responses.
func StatusStrings(statuses []OnboardingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// PlanType is the client's service tier.
type PlanType string

const (
	PlanExecutive    PlanType = "executive"
	PlanProfessional PlanType = "professional"
	PlanDefault      PlanType = "default"
)

// ParsePlanType normalizes a plan name. Empty input and the "starter" alias
// both map to PlanDefault; anything else unknown is rejected.
func ParsePlanType(raw string) (PlanType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "executive":
		return PlanExecutive, nil
	case "professional":
		return PlanProfessional, nil
	case "", "default", "starter":
		return PlanDefault, nil
	default:
		return "", fmt.Errorf("unknown plan type %q", raw)
	}
}

// Role is a portal user's primary role.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleCSM              Role = "csm"
	RoleTeamLead         Role = "team_lead"
	RoleOperationsIntern Role = "operations_intern"
	RoleOnboardingTeam   Role = "onboarding_team"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleAdmin, RoleCSM, RoleTeamLead, RoleOperationsIntern, RoleOnboardingTeam:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// SubRole narrows the onboarding team's responsibilities.
type SubRole string

const (
	SubRoleNone                   SubRole = ""
	SubRoleResumeMaker            SubRole = "resume_maker"
	SubRoleLinkedInAndCoverLetter SubRole = "linkedin_and_cover_letter_optimization"
	SubRoleCoverLetterWriter      SubRole = "cover_letter_writer"
)

// ParseSubRole validates a raw sub-role string; empty is allowed.
func ParseSubRole(raw string) (SubRole, error) {
	switch sub := SubRole(strings.ToLower(strings.TrimSpace(raw))); sub {
	case SubRoleNone, SubRoleResumeMaker, SubRoleLinkedInAndCoverLetter, SubRoleCoverLetterWriter:
		return sub, nil
	default:
		return "", fmt.Errorf("unknown sub-role %q", raw)
	}
}
