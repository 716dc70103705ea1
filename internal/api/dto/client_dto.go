package dto

import (
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// RegisterClientRequest payload for POST /api/clients.
type RegisterClientRequest struct {
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	PlanType         string  `json:"plan_type"`
	DashboardManager *string `json:"dashboard_manager"`
	CSMEmail         *string `json:"csm_email" validate:"omitempty,email"`
}

// ChangeClientPasswordRequest payload for PUT /api/clients/:email/change-password.
type ChangeClientPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ClientResponse is the wire form of a client.
type ClientResponse struct {
	ID               string    `json:"id"`
	ClientNumber     int64     `json:"client_number"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PlanType         string    `json:"plan_type"`
	DashboardManager *string   `json:"dashboard_manager"`
	CreatedAt        time.Time `json:"created_at"`
}

// RegisterClientResponse returns the client and the onboarding job opened
// for it.
type RegisterClientResponse struct {
	Client ClientResponse `json:"client"`
	Job    JobResponse    `json:"job"`
}

// NewClientResponse maps a client.
func NewClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:               c.ID,
		ClientNumber:     c.ClientNumber,
		Name:             c.Name,
		Email:            c.Email,
		PlanType:         string(c.PlanType),
		DashboardManager: c.DashboardManager,
		CreatedAt:        c.CreatedAt,
	}
}
