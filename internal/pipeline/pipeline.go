// Package pipeline encodes the fixed onboarding workflow: which stages follow
// which, which stages each plan includes, and which stages each role may see
// and move between. Every function here is pure.
package pipeline

import (
	"github.com/careerforge/onboarding-portal/internal/domain"
)

var transitions = map[domain.OnboardingStatus][]domain.OnboardingStatus{
	domain.StatusResumeInProgress:       {domain.StatusResumeDraftDone},
	domain.StatusResumeDraftDone:        {domain.StatusResumeInReview},
	domain.StatusResumeInReview:         {domain.StatusResumeApproved},
	domain.StatusResumeApproved:         {domain.StatusLinkedInInProgress, domain.StatusApplicationsReady},
	domain.StatusLinkedInInProgress:     {domain.StatusLinkedInDone},
	domain.StatusLinkedInDone:           {domain.StatusCoverLetterInProgress, domain.StatusApplicationsReady},
	domain.StatusCoverLetterInProgress:  {domain.StatusCoverLetterDone},
	domain.StatusCoverLetterDone:        {domain.StatusApplicationsReady},
	domain.StatusApplicationsReady:      {domain.StatusApplicationsInProgress},
	domain.StatusApplicationsInProgress: {domain.StatusCompleted},
	domain.StatusCompleted:              {},
}

var resumeStatuses = []domain.OnboardingStatus{
	domain.StatusResumeInProgress,
	domain.StatusResumeDraftDone,
	domain.StatusResumeInReview,
	domain.StatusResumeApproved,
}

var linkedInAndCoverLetterStatuses = []domain.OnboardingStatus{
	domain.StatusLinkedInInProgress,
	domain.StatusLinkedInDone,
	domain.StatusCoverLetterInProgress,
	domain.StatusCoverLetterDone,
}

var planStatuses = map[domain.PlanType][]domain.OnboardingStatus{
	domain.PlanExecutive: domain.AllStatuses,
	domain.PlanProfessional: {
		domain.StatusResumeInProgress,
		domain.StatusResumeDraftDone,
		domain.StatusResumeInReview,
		domain.StatusResumeApproved,
		domain.StatusLinkedInInProgress,
		domain.StatusLinkedInDone,
		domain.StatusApplicationsReady,
		domain.StatusApplicationsInProgress,
		domain.StatusCompleted,
	},
	domain.PlanDefault: {
		domain.StatusResumeInProgress,
		domain.StatusResumeDraftDone,
		domain.StatusResumeInReview,
		domain.StatusResumeApproved,
		domain.StatusApplicationsReady,
		domain.StatusApplicationsInProgress,
		domain.StatusCompleted,
	},
}

// AllowedNextStatuses returns the stages directly reachable from current.
func AllowedNextStatuses(current domain.OnboardingStatus) []domain.OnboardingStatus {
	return clone(transitions[current])
}

// IsValidTransition reports whether target directly follows current.
func IsValidTransition(current, target domain.OnboardingStatus) bool {
	return contains(transitions[current], target)
}

// AllowedStatusesForPlan returns the ordered stages a plan includes. Plans the
// table does not know fall back to the default set.
func AllowedStatusesForPlan(plan domain.PlanType) []domain.OnboardingStatus {
	if statuses, ok := planStatuses[plan]; ok {
		return clone(statuses)
	}
	return clone(planStatuses[domain.PlanDefault])
}

// PlanAllows reports whether status belongs to the plan's set.
func PlanAllows(plan domain.PlanType, status domain.OnboardingStatus) bool {
	statuses, ok := planStatuses[plan]
	if !ok {
		statuses = planStatuses[domain.PlanDefault]
	}
	return contains(statuses, status)
}

// VisibleColumnsForUser returns the board columns a role may see. An empty
// result means the user has no board access.
func VisibleColumnsForUser(role domain.Role, subRole domain.SubRole) []domain.OnboardingStatus {
	switch role {
	case domain.RoleAdmin, domain.RoleCSM, domain.RoleTeamLead, domain.RoleOperationsIntern:
		return clone(domain.AllStatuses)
	case domain.RoleOnboardingTeam:
		switch subRole {
		case domain.SubRoleResumeMaker:
			return clone(resumeStatuses)
		case domain.SubRoleLinkedInAndCoverLetter:
			return clone(linkedInAndCoverLetterStatuses)
		}
	}
	return []domain.OnboardingStatus{}
}

// CanUserMoveDirectly reports whether a role may apply moves without approval.
func CanUserMoveDirectly(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleCSM, domain.RoleTeamLead:
		return true
	default:
		return false
	}
}

// CanReviewMoveRequests reports whether a role may approve or reject requests.
func CanReviewMoveRequests(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleTeamLead
}

// MoveTargets lists the stages offered by the "move to" action sheet:
// visible and plan-allowed stages other than the current one. A job outside
// the caller's columns has no targets; a forked resume_approved job counts as
// inside linkedin_in_progress.
func MoveTargets(job domain.Job, role domain.Role, subRole domain.SubRole) []domain.OnboardingStatus {
	targets := make([]domain.OnboardingStatus, 0)
	visible := VisibleColumnsForUser(role, subRole)
	if !inScope(visible, job.Status, job.LinkedInPhaseStarted) {
		return targets
	}
	for _, status := range visible {
		if status == job.Status || !PlanAllows(job.PlanType, status) {
			continue
		}
		targets = append(targets, status)
	}
	return targets
}

// IsForked reports whether a job at status with the LinkedIn flag set is
// also shown in the linkedin_in_progress column.
func IsForked(status domain.OnboardingStatus, linkedInPhaseStarted bool) bool {
	return status == domain.StatusResumeApproved && linkedInPhaseStarted
}

func inScope(visible []domain.OnboardingStatus, current domain.OnboardingStatus, linkedInPhaseStarted bool) bool {
	if contains(visible, current) {
		return true
	}
	return IsForked(current, linkedInPhaseStarted) && contains(visible, domain.StatusLinkedInInProgress)
}

func contains(statuses []domain.OnboardingStatus, target domain.OnboardingStatus) bool {
	for _, s := range statuses {
		if s == target {
			return true
		}
	}
	return false
}

func clone(statuses []domain.OnboardingStatus) []domain.OnboardingStatus {
	out := make([]domain.OnboardingStatus, len(statuses))
	copy(out, statuses)
	return out
}
