package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanType(t *testing.T) {
	cases := map[string]PlanType{
		"Executive":     PlanExecutive,
		" professional": PlanProfessional,
		"STARTER":       PlanDefault,
		"":              PlanDefault,
		"default":       PlanDefault,
	}
	for raw, want := range cases {
		got, err := ParsePlanType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParsePlanType("execuitve")
	assert.Error(t, err)
}

func TestParseRoleRejectsTypos(t *testing.T) {
	role, err := ParseRole("Team_Lead")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLead, role)

	_, err = ParseRole("teamlead")
	assert.Error(t, err)

	sub, err := ParseSubRole("")
	require.NoError(t, err)
	assert.Equal(t, SubRoleNone, sub)

	_, err = ParseSubRole("designer")
	assert.Error(t, err)
}

func TestStatusOrdering(t *testing.T) {
	assert.Equal(t, 0, StatusResumeInProgress.Index())
	assert.Equal(t, len(AllStatuses)-1, StatusCompleted.Index())
	assert.False(t, OnboardingStatus("archived").Valid())

	status, err := ParseStatus(" LinkedIn_Done ")
	require.NoError(t, err)
	assert.Equal(t, StatusLinkedInDone, status)
}

func TestJobCloneIsDeep(t *testing.T) {
	csm := "csm@portal.io"
	job := Job{
		ID:                 "job-1",
		CSMEmail:           &csm,
		Comments:           []Comment{{ID: "c1", Body: "hello", Mentions: []string{"a@portal.io"}}},
		PendingMoveRequest: &MoveRequest{ID: "mr-1", ToStatus: StatusResumeDraftDone},
	}
	dup := job.Clone()
	dup.Comments[0].Body = "changed"
	dup.Comments[0].Mentions[0] = "b@portal.io"
	*dup.CSMEmail = "other@portal.io"
	dup.PendingMoveRequest.ToStatus = StatusCompleted

	assert.Equal(t, "hello", job.Comments[0].Body)
	assert.Equal(t, "a@portal.io", job.Comments[0].Mentions[0])
	assert.Equal(t, "csm@portal.io", *job.CSMEmail)
	assert.Equal(t, StatusResumeDraftDone, job.PendingMoveRequest.ToStatus)
}
