package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/service"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// ClientsHandler registers clients and manages their dashboard passwords.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// List handles GET /api/clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	clients, err := h.clients.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ClientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, dto.NewClientResponse(client))
	}
	return data(c, fiber.StatusOK, resp)
}

// Register handles POST /api/clients.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RegisterClientRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	plan, err := domain.ParsePlanType(req.PlanType)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "plan_type"})
	}
	client, job, err := h.clients.Register(c.UserContext(), actor, service.ClientRegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		PlanType:         plan,
		DashboardManager: req.DashboardManager,
		CSMEmail:         req.CSMEmail,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.RegisterClientResponse{
		Client: dto.NewClientResponse(*client),
		Job:    dto.NewJobResponse(*job),
	})
}

// ChangePassword handles PUT /api/clients/:email/change-password.
func (h *ClientsHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangeClientPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.clients.ChangePassword(c.UserContext(), c.Params("email"), req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
