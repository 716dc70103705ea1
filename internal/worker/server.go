package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/config"
)

// Mailer sends a notification to its recipient.
type Mailer interface {
	Send(ctx context.Context, payload NotificationPayload) error
}

// LogMailer records deliveries in the log instead of sending mail.
type LogMailer struct {
	From   string
	Logger *zap.Logger
}

// Send logs the delivery.
func (m LogMailer) Send(ctx context.Context, payload NotificationPayload) error {
	m.Logger.Info("notification delivered",
		zap.String("from", m.From),
		zap.String("to", payload.RecipientEmail),
		zap.String("kind", string(payload.Kind)),
		zap.String("job_id", payload.JobID))
	return nil
}

// HandleNotificationTask returns the asynq handler delivering notification tasks.
func HandleNotificationTask(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload NotificationPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("decode notification payload: %v: %w", err, asynq.SkipRetry)
		}
		if payload.RecipientEmail == "" {
			return fmt.Errorf("notification %s has no recipient: %w", payload.NotificationID, asynq.SkipRetry)
		}
		return mailer.Send(ctx, payload)
	}
}

// RegisterHandlers wires task handlers onto mux.
func RegisterHandlers(mux *asynq.ServeMux, mailer Mailer) {
	mux.HandleFunc(TypeNotificationDeliver, HandleNotificationTask(mailer))
}

// Server runs the asynq consumer for notification tasks.
type Server struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewServer builds a worker server listening on cfg.Queue.
func NewServer(opt asynq.RedisClientOpt, cfg config.WorkerConfig, mailer Mailer, logger *zap.Logger) *Server {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		Logger:      logger.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("notification task failed",
				zap.String("type", task.Type()),
				zap.ByteString("payload", task.Payload()),
				zap.Error(err))
		}),
	})
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, mailer)
	return &Server{srv: srv, mux: mux, logger: logger}
}

// Start begins processing in background goroutines.
func (s *Server) Start() error {
	s.logger.Info("starting notification worker")
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	return nil
}

// Shutdown stops accepting tasks and waits for in-flight ones.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
