package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

// Enqueuer pushes notification deliveries onto the asynq queue.
type Enqueuer struct {
	client   *asynq.Client
	queue    string
	maxRetry int
	logger   *zap.Logger
}

// NewEnqueuer constructs an enqueuer bound to the given redis connection.
func NewEnqueuer(opt asynq.RedisClientOpt, cfg config.WorkerConfig, logger *zap.Logger) *Enqueuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enqueuer{
		client:   asynq.NewClient(opt),
		queue:    cfg.Queue,
		maxRetry: cfg.MaxRetry,
		logger:   logger,
	}
}

// EnqueueNotification schedules delivery of n.
func (e *Enqueuer) EnqueueNotification(ctx context.Context, n domain.Notification) error {
	task, err := NewNotificationTask(n)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue), asynq.MaxRetry(e.maxRetry))
	if err != nil {
		return fmt.Errorf("enqueue notification %s: %w", n.ID, err)
	}
	e.logger.Debug("notification enqueued",
		zap.String("task_id", info.ID),
		zap.String("recipient", n.RecipientEmail),
		zap.String("kind", string(n.Kind)))
	return nil
}

// Close releases the underlying redis connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
