package domain

import "time"

// NotificationKind differentiates notification sources.
type NotificationKind string

const (
	NotificationMention       NotificationKind = "mention"
	NotificationMoveRequested NotificationKind = "move_requested"
	NotificationMoveReviewed  NotificationKind = "move_reviewed"
)

// Notification is delivered to a portal user's inbox.
type Notification struct {
	ID             string
	RecipientEmail string
	JobID          string
	CommentID      *string
	Kind           NotificationKind
	Message        string
	Read           bool
	CreatedAt      time.Time
}
