package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

func writeData(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func TestListJobsSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/onboarding/jobs", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeData(t, w, http.StatusOK, []dto.JobResponse{{
			ID:       "job-1",
			Status:   string(domain.StatusLinkedInDone),
			PlanType: string(domain.PlanExecutive),
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.StatusLinkedInDone, jobs[0].Status)
	assert.Equal(t, domain.PlanExecutive, jobs[0].PlanType)
}

func TestMoveJobSendsPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/onboarding/jobs/job-1", r.URL.Path)
		var body dto.UpdateJobRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Status)
		assert.Equal(t, "applications_ready", *body.Status)
		assert.Equal(t, "jump", body.Mode)
		writeData(t, w, http.StatusOK, dto.JobResponse{ID: "job-1", Status: *body.Status})
	}))
	defer srv.Close()

	job, err := New(srv.URL).MoveJob(context.Background(), "job-1", domain.StatusApplicationsReady, "jump")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplicationsReady, job.Status)
}

func TestAPIErrorCarriesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"PERMISSION_DENIED","message":"not allowed","details":{"allowed_statuses":["resume_in_progress","resume_draft_done"]}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).RequestMove(context.Background(), "job-1", domain.StatusCompleted)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PERMISSION_DENIED", apiErr.Code)
	assert.True(t, apiErr.IsValidation())
	assert.Equal(t, []string{"resume_in_progress", "resume_draft_done"}, apiErr.AllowedStatuses())
}

func TestNetworkErrorOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).GetJob(context.Background(), "job-1")
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
}

func TestLoginStoresToken(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC()
	verified := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, http.StatusOK, dto.LoginResponse{
			Token:      "jwt",
			ExpiresAt:  &expires,
			User:       &dto.UserResponse{Email: "admin@portal.io", Role: "admin"},
			TrustToken: "trust",
			VerifiedAt: &verified,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.VerifyOTP(context.Background(), "admin@portal.io", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt", c.Token())
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	require.NotNil(t, result.Trust)
	assert.Equal(t, "trust", result.Trust.TrustToken)
}

func TestSessionRoundTripAndTrustExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	empty, err := LoadSession(path)
	require.NoError(t, err)
	_, ok := empty.CurrentUser()
	assert.False(t, ok)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{}
	s.Apply(LoginResult{
		Token: "jwt",
		User:  domain.User{Email: "admin@portal.io", Role: domain.RoleAdmin},
		Trust: &OTPTrust{Email: "admin@portal.io", TrustToken: "trust", VerifiedAt: now},
	})
	require.NoError(t, s.Save(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	user, ok := loaded.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "admin@portal.io", user.Email)

	assert.Equal(t, "trust", loaded.TrustTokenFor("ADMIN@portal.io", now.Add(29*24*time.Hour)))
	assert.Empty(t, loaded.TrustTokenFor("admin@portal.io", now.Add(31*24*time.Hour)))
	assert.Empty(t, loaded.TrustTokenFor("other@portal.io", now))

	loaded.Logout()
	_, ok = loaded.CurrentUser()
	assert.False(t, ok)
	assert.NotNil(t, loaded.AdminOTPTrust)
}
