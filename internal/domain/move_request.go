package domain

import "time"

// MoveRequestState captures the review lifecycle of a move request.
type MoveRequestState string

const (
	MoveRequestPending  MoveRequestState = "pending"
	MoveRequestApproved MoveRequestState = "approved"
	MoveRequestRejected MoveRequestState = "rejected"
)

// MoveRequest is a transition proposed by a user without direct-move rights.
type MoveRequest struct {
	ID          string
	JobID       string
	FromStatus  OnboardingStatus
	ToStatus    OnboardingStatus
	RequestedBy string
	State       MoveRequestState
	ReviewedBy  *string
	ReviewNote  string
	CreatedAt   time.Time
	ReviewedAt  *time.Time
}
