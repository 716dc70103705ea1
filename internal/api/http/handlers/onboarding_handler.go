package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/pipeline"
	"github.com/careerforge/onboarding-portal/internal/service"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// OnboardingHandler serves the board: jobs, moves, comments and the inbox.
type OnboardingHandler struct {
	onboarding    *service.OnboardingService
	notifications *service.NotificationService
}

// NewOnboardingHandler constructs the handler.
func NewOnboardingHandler(onboarding *service.OnboardingService, notifications *service.NotificationService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, notifications: notifications}
}

// ListJobs GET /api/onboarding/jobs.
func (h *OnboardingHandler) ListJobs(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	filter, err := parseJobQuery(c)
	if err != nil {
		return err
	}
	jobs, err := h.onboarding.ListJobs(c.UserContext(), user, filter)
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, dto.NewJobResponse(job))
	}
	return data(c, fiber.StatusOK, items)
}

// CreateJob POST /api/onboarding/jobs.
func (h *OnboardingHandler) CreateJob(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	plan, err := domain.ParsePlanType(req.PlanType)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "plan_type"})
	}
	job, err := h.onboarding.CreateJob(c.UserContext(), user, service.JobCreateInput{
		ClientEmail:         req.ClientEmail,
		ClientName:          req.ClientName,
		ClientNumber:        req.ClientNumber,
		PlanType:            plan,
		CSMEmail:            req.CSMEmail,
		ResumeMakerEmail:    req.ResumeMakerEmail,
		LinkedInMemberEmail: req.LinkedInMemberEmail,
		DashboardManager:    req.DashboardManager,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewJobResponse(*job))
}

// GetJob GET /api/onboarding/jobs/:id.
func (h *OnboardingHandler) GetJob(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	job, err := h.onboarding.GetJob(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewJobResponse(*job))
}

// UpdateJob PATCH /api/onboarding/jobs/:id.
func (h *OnboardingHandler) UpdateJob(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	input, err := updateInput(req)
	if err != nil {
		return err
	}
	job, err := h.onboarding.UpdateJob(c.UserContext(), user, c.Params("id"), input)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewJobResponse(*job))
}

// RequestMove POST /api/onboarding/jobs/:id/request-move.
func (h *OnboardingHandler) RequestMove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.MoveRequestInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	target, err := domain.ParseStatus(req.TargetStatus)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "target_status"})
	}
	moveReq, err := h.onboarding.RequestMove(c.UserContext(), user, c.Params("id"), target)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewMoveRequestResponse(*moveReq))
}

// ApproveMove POST /api/onboarding/jobs/:id/approve-move.
func (h *OnboardingHandler) ApproveMove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewMoveInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	job, err := h.onboarding.ApproveMove(c.UserContext(), user, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewJobResponse(*job))
}

// RejectMove POST /api/onboarding/jobs/:id/reject-move.
func (h *OnboardingHandler) RejectMove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewMoveInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	moveReq, err := h.onboarding.RejectMove(c.UserContext(), user, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewMoveRequestResponse(*moveReq))
}

// Roles GET /api/onboarding/jobs/roles.
func (h *OnboardingHandler) Roles(c *fiber.Ctx) error {
	dir, err := h.onboarding.Roles(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewRolesResponse(*dir))
}

// Notifications GET /api/onboarding/notifications.
func (h *OnboardingHandler) Notifications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	unread, _ := strconv.ParseBool(c.Query("unread"))
	items, err := h.notifications.List(c.UserContext(), user.Email, unread)
	if err != nil {
		return err
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NewNotificationResponse(n))
	}
	return data(c, fiber.StatusOK, resp)
}

// MarkNotificationRead PATCH /api/onboarding/notifications/:id/read.
func (h *OnboardingHandler) MarkNotificationRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.UserContext(), user.Email, c.Params("id")); err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"id": c.Params("id"), "read": true})
}

// UnresolvedIssues GET /api/onboarding/issues/non-resolved.
func (h *OnboardingHandler) UnresolvedIssues(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	issues, err := h.onboarding.UnresolvedIssues(c.UserContext(), user)
	if err != nil {
		return err
	}
	resp := make([]dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		resp = append(resp, dto.IssueResponse{
			JobID:       issue.Job.ID,
			ClientEmail: issue.Job.ClientEmail,
			ClientName:  issue.Job.ClientName,
			Status:      string(issue.Job.Status),
			Comment:     dto.NewCommentResponse(issue.Comment),
		})
	}
	return data(c, fiber.StatusOK, resp)
}

func parseJobQuery(c *fiber.Ctx) (service.JobListFilter, error) {
	filter := service.JobListFilter{}
	for _, raw := range splitList(c.Query("status")) {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), map[string]any{"field": "status"})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range splitList(c.Query("plan_type")) {
		plan, err := domain.ParsePlanType(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), map[string]any{"field": "plan_type"})
		}
		filter.PlanTypes = append(filter.PlanTypes, plan)
	}
	if email := c.Query("client_email"); email != "" {
		filter.ClientEmail = &email
	}
	if assignee := c.Query("assignee"); assignee != "" {
		filter.AssigneeEmail = &assignee
	}
	filter.UpdatedFrom = parseTime(c.Query("updated_from"))
	filter.Limit = c.QueryInt("limit", 0)
	filter.Offset = c.QueryInt("offset", 0)
	return filter, nil
}

func updateInput(req dto.UpdateJobRequest) (service.JobUpdateInput, error) {
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		return service.JobUpdateInput{}, apperrors.NewValidationError(err.Error(), map[string]any{"field": "mode"})
	}
	input := service.JobUpdateInput{
		Mode:                 mode,
		ClientName:           req.ClientName,
		CSMEmail:             req.CSMEmail,
		ResumeMakerEmail:     req.ResumeMakerEmail,
		LinkedInMemberEmail:  req.LinkedInMemberEmail,
		DashboardManager:     req.DashboardManager,
		LinkedInPhaseStarted: req.LinkedInPhaseStarted,
		ResolveCommentID:     req.ResolveCommentID,
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return input, apperrors.NewValidationError(err.Error(), map[string]any{"field": "status"})
		}
		input.Status = &status
	}
	if req.PlanType != nil {
		plan, err := domain.ParsePlanType(*req.PlanType)
		if err != nil {
			return input, apperrors.NewValidationError(err.Error(), map[string]any{"field": "plan_type"})
		}
		input.PlanType = &plan
	}
	if req.Comment != nil {
		input.Comment = &service.CommentInput{Body: req.Comment.Body, IsIssue: req.Comment.IsIssue}
	}
	if req.EditComment != nil {
		input.EditComment = &service.CommentEditInput{ID: req.EditComment.ID, Body: req.EditComment.Body}
	}
	if req.Attachment != nil {
		input.Attachment = &service.AttachmentInput{
			StorageKey: req.Attachment.StorageKey,
			FileName:   req.Attachment.FileName,
			MimeType:   req.Attachment.MimeType,
			SizeBytes:  req.Attachment.SizeBytes,
		}
	}
	return input, nil
}
