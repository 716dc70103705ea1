package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

var (
	adminUser  = domain.User{ID: "u-admin", Name: "Ada Admin", Email: "ada@portal.test", Role: domain.RoleAdmin, Active: true}
	csmUser    = domain.User{ID: "u-csm", Name: "Cara Smith", Email: "cara@portal.test", Role: domain.RoleCSM, Active: true}
	internUser = domain.User{ID: "u-intern", Name: "Ivan Intern", Email: "ivan@portal.test", Role: domain.RoleOperationsIntern, Active: true}
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// newTestApp renders errors with the portal envelope and signs every request
// in as user when it is non-nil.
func newTestApp(user *domain.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
				"details": domainErr.Details,
			}})
		},
	})
	if user != nil {
		app.Use(func(c *fiber.Ctx) error {
			auth.SetPrincipal(c, *user)
			return c.Next()
		})
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type userRepoStub struct {
	users []domain.User
}

func (r *userRepoStub) Create(ctx context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users = append(r.users, *user)
	return nil
}

func (r *userRepoStub) Update(ctx context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *userRepoStub) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepoStub) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepoStub) List(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.users {
		if activeOnly && !u.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type clientRepoStub struct {
	clients []domain.Client
}

func (r *clientRepoStub) Create(ctx context.Context, client *domain.Client) error {
	client.ID = fmt.Sprintf("client-%d", len(r.clients)+1)
	r.clients = append(r.clients, *client)
	return nil
}

func (r *clientRepoStub) Update(ctx context.Context, client *domain.Client) error {
	for i := range r.clients {
		if strings.EqualFold(r.clients[i].Email, client.Email) {
			r.clients[i] = *client
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *clientRepoStub) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, c := range r.clients {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *clientRepoStub) List(ctx context.Context) ([]domain.Client, error) {
	return append([]domain.Client{}, r.clients...), nil
}

type applicationRepoStub struct {
	apps []domain.Application
}

func (r *applicationRepoStub) Create(ctx context.Context, app *domain.Application) error {
	app.ID = fmt.Sprintf("app-%d", len(r.apps)+1)
	app.CreatedAt = time.Now()
	r.apps = append(r.apps, *app)
	return nil
}

func (r *applicationRepoStub) List(ctx context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	out := []domain.Application{}
	for _, app := range r.apps {
		if filter.ClientEmail != nil && !strings.EqualFold(app.ClientEmail, *filter.ClientEmail) {
			continue
		}
		if filter.From != nil && app.AppliedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && app.AppliedAt.After(*filter.To) {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

type sessionKeyRepoStub struct{}

func (sessionKeyRepoStub) Create(ctx context.Context, key *domain.SessionKey) error { return nil }

func (sessionKeyRepoStub) ListByEmail(ctx context.Context, email string) ([]domain.SessionKey, error) {
	return nil, nil
}

func (sessionKeyRepoStub) ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]domain.SessionKey, error) {
	return nil, nil
}

func (sessionKeyRepoStub) MarkUsed(ctx context.Context, id string, at time.Time) error { return nil }

func (sessionKeyRepoStub) RevokeAll(ctx context.Context, email string) error { return nil }
