package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/careerforge/onboarding-portal/internal/api/http"
	"github.com/careerforge/onboarding-portal/internal/api/http/handlers"
	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/events"
	"github.com/careerforge/onboarding-portal/internal/export"
	"github.com/careerforge/onboarding-portal/internal/observability"
	"github.com/careerforge/onboarding-portal/internal/persistence"
	"github.com/careerforge/onboarding-portal/internal/repository"
	"github.com/careerforge/onboarding-portal/internal/service"
	"github.com/careerforge/onboarding-portal/internal/storage"
	"github.com/careerforge/onboarding-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	counterRepo := repository.NewCounterRepository(pool)
	moveRequestRepo := repository.NewMoveRequestRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	asynqOpt := persistence.AsynqOpt(cfg.Redis)
	enqueuer := worker.NewEnqueuer(asynqOpt, cfg.Worker, logger)
	defer enqueuer.Close() //nolint:errcheck

	var workerServer *worker.Server
	if cfg.Worker.Enabled {
		workerServer = worker.NewServer(asynqOpt, cfg.Worker, worker.LogMailer{From: cfg.Notification.EmailFrom, Logger: logger}, logger)
		if err := workerServer.Start(); err != nil {
			logger.Fatal("failed to start worker", zap.Error(err))
		}
	}

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: repository.NewNotificationRepository(pool),
		Enqueuer:         enqueuer,
		Metrics:          metrics,
	}, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	onboardingService := service.NewOnboardingService(service.OnboardingDependencies{
		JobRepo:         jobRepo,
		CommentRepo:     repository.NewCommentRepository(pool),
		HistoryRepo:     repository.NewMoveHistoryRepository(pool),
		AttachmentRepo:  repository.NewAttachmentRepository(pool),
		MoveRequestRepo: moveRequestRepo,
		UserRepo:        userRepo,
		CounterRepo:     counterRepo,
		JobCache:        repository.NewJobCache(redis.Client, cfg.Redis.JobCacheTTL),
		Tx:              repository.NewTransactor(pool),
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		SessionKeyRepo: repository.NewSessionKeyRepository(pool),
		OTPStore:       repository.NewOTPStore(redis.Client),
		Logger:         logger,
	})
	if err := authService.EnsureBootstrapAdmin(ctx); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:  clientRepo,
		CounterRepo: counterRepo,
		Onboarding:  onboardingService,
		BcryptCost:  cfg.Auth.BcryptCost,
	})
	operationsService := service.NewOperationsService(service.OperationsDependencies{
		UserRepo:        userRepo,
		ClientRepo:      clientRepo,
		JobRepo:         jobRepo,
		MoveRequestRepo: moveRequestRepo,
		ApplicationRepo: applicationRepo,
	})

	attachments, err := storage.NewLocalStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Storage.MaxUploadMB<<20 + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Onboarding:     handlers.NewOnboardingHandler(onboardingService, notificationService),
		Upload:         handlers.NewUploadHandler(attachments, onboardingService),
		Clients:        handlers.NewClientsHandler(clientService),
		Operations:     handlers.NewOperationsHandler(operationsService, service.NewAnalyticsService(applicationRepo), export.NewPDFExporter()),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if workerServer != nil {
		workerServer.Shutdown()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
