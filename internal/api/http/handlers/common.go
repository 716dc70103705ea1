package handlers

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/domain"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parses the body into req and runs its validate tags. An empty
// body leaves req at its zero value.
func bindJSON(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return validateStruct(req)
	}
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validateStruct(req)
}

func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return apperrors.NewValidationError("invalid payload", map[string]any{"fields": fields})
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func currentUser(c *fiber.Ctx) (domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return domain.User{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
