package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/careerforge/onboarding-portal/internal/api/http/handlers"
	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Onboarding     *handlers.OnboardingHandler
	Upload         *handlers.UploadHandler
	Clients        *handlers.ClientsHandler
	Operations     *handlers.OperationsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify-credentials", cfg.Auth.VerifyCredentials)
	authGroup.Post("/request-otp", cfg.Auth.RequestOTP)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/validate-otp-trust", cfg.Auth.ValidateTrust)

	admin := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.Auth.ListUsers)
	admin.Post("/users", cfg.Auth.CreateUser)
	admin.Delete("/users", cfg.Auth.DeleteUser)
	admin.Post("/session-key", cfg.Auth.IssueSessionKey)
	admin.Get("/session-keys/:email", cfg.Auth.SessionKeys)

	api.Get("/managers/public", cfg.Operations.PublicManagers)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	managers := auth.RequireRole(domain.RoleAdmin, domain.RoleCSM, domain.RoleTeamLead)

	onboarding := protected.Group("/onboarding")
	onboarding.Get("/jobs", cfg.Onboarding.ListJobs)
	onboarding.Post("/jobs", cfg.Onboarding.CreateJob)
	onboarding.Get("/jobs/roles", cfg.Onboarding.Roles)
	onboarding.Get("/jobs/:id", cfg.Onboarding.GetJob)
	onboarding.Patch("/jobs/:id", cfg.Onboarding.UpdateJob)
	onboarding.Post("/jobs/:id/request-move", cfg.Onboarding.RequestMove)
	onboarding.Post("/jobs/:id/approve-move", cfg.Onboarding.ApproveMove)
	onboarding.Post("/jobs/:id/reject-move", cfg.Onboarding.RejectMove)
	onboarding.Get("/notifications", cfg.Onboarding.Notifications)
	onboarding.Patch("/notifications/:id/read", cfg.Onboarding.MarkNotificationRead)
	onboarding.Get("/issues/non-resolved", cfg.Onboarding.UnresolvedIssues)

	upload := protected.Group("/upload")
	upload.Post("/onboarding-attachment", cfg.Upload.UploadAttachment)
	upload.Get("/onboarding/:jobId/*", cfg.Upload.DownloadAttachment)

	clients := protected.Group("/clients", managers)
	clients.Get("", cfg.Clients.List)
	clients.Post("", cfg.Clients.Register)
	clients.Put("/:email/change-password", cfg.Clients.ChangePassword)

	protected.Get("/managers", managers, cfg.Operations.Managers)
	protected.Get("/operations", cfg.Operations.Operators)
	protected.Get("/operations/performance-report", managers, cfg.Operations.PerformanceReport)
	protected.Get("/operations/client-stats", managers, cfg.Operations.ClientStats)
	protected.Post("/operations/applications", cfg.Operations.RecordApplication)

	analytics := protected.Group("/analytics")
	analytics.Post("/client-job-analysis", cfg.Operations.ClientJobAnalysis)
	analytics.Post("/applied-by-date", cfg.Operations.AppliedByDate)
}
