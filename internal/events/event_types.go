package events

import (
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobCreated       EventType = "job_created"
	EventJobStatusChanged EventType = "job_status_changed"
	EventMoveRequested    EventType = "move_requested"
	EventMoveReviewed     EventType = "move_reviewed"
	EventCommentAdded     EventType = "comment_added"
)

// Actor identifies the portal user behind an event.
type Actor struct {
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
	Role  domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	JobID     string    `json:"job_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// JobCreatedPayload payload.
type JobCreatedPayload struct {
	ClientEmail string          `json:"client_email"`
	ClientName  string          `json:"client_name"`
	PlanType    domain.PlanType `json:"plan_type"`
}

// JobStatusChangedPayload payload.
type JobStatusChangedPayload struct {
	ClientName string                  `json:"client_name"`
	OldStatus  domain.OnboardingStatus `json:"old_status"`
	NewStatus  domain.OnboardingStatus `json:"new_status"`
	ViaRequest *string                 `json:"via_request,omitempty"`
}

// MoveRequestedPayload payload; Reviewers are the emails allowed to act on it.
type MoveRequestedPayload struct {
	RequestID  string                  `json:"request_id"`
	ClientName string                  `json:"client_name"`
	FromStatus domain.OnboardingStatus `json:"from_status"`
	ToStatus   domain.OnboardingStatus `json:"to_status"`
	Reviewers  []string                `json:"reviewers"`
}

// MoveReviewedPayload payload.
type MoveReviewedPayload struct {
	RequestID   string                  `json:"request_id"`
	ClientName  string                  `json:"client_name"`
	RequestedBy string                  `json:"requested_by"`
	ToStatus    domain.OnboardingStatus `json:"to_status"`
	State       domain.MoveRequestState `json:"state"`
	Note        string                  `json:"note,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string   `json:"comment_id"`
	ClientName  string   `json:"client_name"`
	IsIssue     bool     `json:"is_issue"`
	Mentions    []string `json:"mentions"`
	BodyPreview string   `json:"body_preview"`
}
