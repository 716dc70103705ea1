package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/events"
	"github.com/careerforge/onboarding-portal/internal/observability"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// NotificationEnqueuer hands notifications to the background delivery queue.
type NotificationEnqueuer interface {
	EnqueueNotification(ctx context.Context, n domain.Notification) error
}

// NotificationService turns domain events into inbox notifications and
// schedules their delivery.
type NotificationService struct {
	dispatcher events.Dispatcher
	repo       repository.NotificationRepository
	enqueuer   NotificationEnqueuer
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher       events.Dispatcher
	NotificationRepo repository.NotificationRepository
	Enqueuer         NotificationEnqueuer
	Metrics          *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		repo:       deps.NotificationRepo,
		enqueuer:   deps.Enqueuer,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventJobCreated, n.handleJobCreated)
	n.dispatcher.Subscribe(events.EventJobStatusChanged, n.handleJobStatusChanged)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventMoveRequested, n.handleMoveRequested)
	n.dispatcher.Subscribe(events.EventMoveReviewed, n.handleMoveReviewed)
}

// List returns the caller's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, recipient string, unreadOnly bool) ([]domain.Notification, error) {
	return n.repo.ListByRecipient(ctx, recipient, unreadOnly, 100)
}

// MarkRead flags one of the caller's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, recipient, id string) error {
	if err := n.repo.MarkRead(ctx, id, recipient); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return err
	}
	return nil
}

func (n *NotificationService) handleJobCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("JobCreated", zap.String("job_id", event.JobID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleJobStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("JobStatusChanged", zap.String("job_id", event.JobID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	commentID := payload.CommentID
	message := fmt.Sprintf("%s mentioned you on %s: %s", actorLabel(event.Actor), payload.ClientName, payload.BodyPreview)
	for _, recipient := range payload.Mentions {
		if strings.EqualFold(recipient, event.Actor.Email) {
			continue
		}
		if err := n.notify(ctx, domain.Notification{
			RecipientEmail: recipient,
			JobID:          event.JobID,
			CommentID:      &commentID,
			Kind:           domain.NotificationMention,
			Message:        message,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleMoveRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MoveRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	message := fmt.Sprintf("%s requested moving %s from %s to %s",
		actorLabel(event.Actor), payload.ClientName, payload.FromStatus, payload.ToStatus)
	for _, reviewer := range payload.Reviewers {
		if err := n.notify(ctx, domain.Notification{
			RecipientEmail: reviewer,
			JobID:          event.JobID,
			Kind:           domain.NotificationMoveRequested,
			Message:        message,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleMoveReviewed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MoveReviewedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if payload.RequestedBy == "" || strings.EqualFold(payload.RequestedBy, event.Actor.Email) {
		return nil
	}
	message := fmt.Sprintf("%s %s your request to move %s to %s",
		actorLabel(event.Actor), payload.State, payload.ClientName, payload.ToStatus)
	if payload.Note != "" {
		message += ": " + payload.Note
	}
	return n.notify(ctx, domain.Notification{
		RecipientEmail: payload.RequestedBy,
		JobID:          event.JobID,
		Kind:           domain.NotificationMoveReviewed,
		Message:        message,
	})
}

// notify persists the notification, then queues it for delivery. A queue
// failure is logged; the inbox entry stands.
func (n *NotificationService) notify(ctx context.Context, notification domain.Notification) error {
	if err := n.repo.Create(ctx, &notification); err != nil {
		return err
	}
	delivery := "inbox"
	if n.cfg.Async && n.enqueuer != nil {
		if err := n.enqueuer.EnqueueNotification(ctx, notification); err != nil {
			n.logger.Warn("notification enqueue failed",
				zap.String("notification_id", notification.ID),
				zap.Error(err))
		} else {
			delivery = "queued"
		}
	} else {
		n.sendEmailNotificationStub(ctx, notification)
	}
	n.metrics.RecordNotification(string(notification.Kind), delivery)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, notification domain.Notification) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", notification.RecipientEmail),
		zap.String("job_id", notification.JobID),
		zap.String("kind", string(notification.Kind)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("job_id", event.JobID),
		zap.String("event_type", string(event.Type)))
}

func actorLabel(actor events.Actor) string {
	if actor.Name != "" {
		return actor.Name
	}
	return actor.Email
}
