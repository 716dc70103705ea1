package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// TypeNotificationDeliver is the asynq task type for outbound notification delivery.
const TypeNotificationDeliver = "notification:deliver"

// NotificationPayload is the task body for TypeNotificationDeliver.
type NotificationPayload struct {
	NotificationID string                  `json:"notification_id"`
	RecipientEmail string                  `json:"recipient_email"`
	JobID          string                  `json:"job_id"`
	Kind           domain.NotificationKind `json:"kind"`
	Message        string                  `json:"message"`
}

// NewNotificationTask builds a delivery task for n.
func NewNotificationTask(n domain.Notification) (*asynq.Task, error) {
	payload, err := json.Marshal(NotificationPayload{
		NotificationID: n.ID,
		RecipientEmail: n.RecipientEmail,
		JobID:          n.JobID,
		Kind:           n.Kind,
		Message:        n.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notification payload: %w", err)
	}
	return asynq.NewTask(TypeNotificationDeliver, payload), nil
}
