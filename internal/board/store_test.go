package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

func TestDedupeKeepsLatestByID(t *testing.T) {
	older := domain.Job{ID: "job-1", ClientName: "old", UpdatedAt: time.Unix(100, 0)}
	newer := domain.Job{ID: "job-1", ClientName: "new", UpdatedAt: time.Unix(200, 0)}
	other := domain.Job{ID: "job-2", UpdatedAt: time.Unix(50, 0)}

	out := Dedupe([]domain.Job{older, other, newer})
	require.Len(t, out, 2)
	assert.Equal(t, "job-1", out[0].ID)
	assert.Equal(t, "new", out[0].ClientName)

	again := Dedupe(out)
	assert.Equal(t, out, again)
}

func TestDedupeWithoutIDUsesClientAndStatus(t *testing.T) {
	a := domain.Job{ClientEmail: "A@x.io", Status: domain.StatusResumeInReview, UpdatedAt: time.Unix(1, 0)}
	b := domain.Job{ClientEmail: "a@x.io", Status: domain.StatusResumeInReview, UpdatedAt: time.Unix(2, 0)}
	c := domain.Job{ClientEmail: "a@x.io", Status: domain.StatusResumeApproved}
	out := Dedupe([]domain.Job{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, time.Unix(2, 0), out[0].UpdatedAt)
}

func TestStoreJobsByStatusAndSelection(t *testing.T) {
	store := NewStore()
	store.SetJobs([]domain.Job{
		{ID: "a", Status: domain.StatusResumeInProgress},
		{ID: "b", Status: domain.StatusCompleted},
		{ID: "c", Status: domain.StatusResumeInProgress},
	})

	assert.Len(t, store.JobsByStatus(domain.StatusResumeInProgress), 2)
	assert.Empty(t, store.JobsByStatus(domain.StatusLinkedInDone))

	store.SetSelectedJob("b")
	selected, ok := store.SelectedJob()
	require.True(t, ok)
	assert.Equal(t, domain.StatusCompleted, selected.Status)
	assert.True(t, store.IsSelected("b"))

	store.ClearSelected()
	_, ok = store.SelectedJob()
	assert.False(t, ok)
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	store.SetJobs([]domain.Job{{ID: "a", Comments: []domain.Comment{{ID: "c1", Body: "hi"}}}})
	job, _ := store.Job("a")
	job.Comments[0].Body = "mutated"
	again, _ := store.Job("a")
	assert.Equal(t, "hi", again.Comments[0].Body)
}

func TestColumnsForkLinkedInPhase(t *testing.T) {
	jobs := []domain.Job{
		{ID: "a", Status: domain.StatusResumeApproved, LinkedInPhaseStarted: true},
		{ID: "b", Status: domain.StatusResumeApproved},
		{ID: "c", Status: domain.StatusLinkedInInProgress},
	}
	columns := ColumnsFor(jobs, []domain.OnboardingStatus{domain.StatusResumeApproved, domain.StatusLinkedInInProgress})
	require.Len(t, columns, 2)
	assert.Len(t, columns[0].Cards, 2)

	linkedIn := columns[1]
	require.Len(t, linkedIn.Cards, 2)
	forked := 0
	for _, card := range linkedIn.Cards {
		if card.Forked {
			forked++
			assert.Equal(t, "a", card.Job.ID)
			assert.Equal(t, domain.StatusResumeApproved, card.Job.Status)
		}
	}
	assert.Equal(t, 1, forked)
}

func TestColumnsHiddenForkWhenLinkedInNotVisible(t *testing.T) {
	jobs := []domain.Job{{ID: "a", Status: domain.StatusResumeApproved, LinkedInPhaseStarted: true}}
	columns := ColumnsFor(jobs, []domain.OnboardingStatus{domain.StatusResumeApproved})
	require.Len(t, columns, 1)
	assert.Len(t, columns[0].Cards, 1)
}
