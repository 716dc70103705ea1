package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

func TestBindJSONReportsJSONFieldNames(t *testing.T) {
	app := newTestApp(nil)
	app.Post("/users", func(c *fiber.Ctx) error {
		var req dto.CreateUserRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		return data(c, fiber.StatusCreated, req)
	})

	resp, env := doJSON(t, app, http.MethodPost, "/users", map[string]any{"email": "not-an-email", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)
	assert.Equal(t, map[string]any{
		"name":     "required",
		"email":    "email",
		"password": "min",
		"role":     "required",
	}, env.Error.Details["fields"])

	resp, env = doJSON(t, app, http.MethodPost, "/users", "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid payload", env.Error.Message)

	resp, _ = doJSON(t, app, http.MethodPost, "/users", map[string]any{
		"name": "Nia", "email": "nia@portal.test", "password": "password123", "role": "csm",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCurrentUserRequiresPrincipal(t *testing.T) {
	app := newTestApp(nil)
	app.Get("/me", func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		return data(c, fiber.StatusOK, user.Email)
	})
	resp, _ := doJSON(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	signedIn := newTestApp(&csmUser)
	signedIn.Get("/me", func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		return data(c, fiber.StatusOK, user.Email)
	})
	resp, env := doJSON(t, signedIn, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var email string
	decodeData(t, env, &email)
	assert.Equal(t, csmUser.Email, email)
}

func TestQueryHelpers(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"resume_in_progress", "completed"}, splitList(" resume_in_progress, ,completed "))

	assert.Nil(t, parseTime(""))
	assert.Nil(t, parseTime("yesterday"))
	day := parseTime("2026-04-02")
	require.NotNil(t, day)
	assert.Equal(t, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), *day)
	stamp := parseTime("2026-04-02T10:30:00Z")
	require.NotNil(t, stamp)
	assert.Equal(t, 10, stamp.Hour())
}
