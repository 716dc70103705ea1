package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/events"
	"github.com/careerforge/onboarding-portal/internal/observability"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

func newNotificationFixture(enqueuer NotificationEnqueuer, async bool) (*NotificationService, events.Dispatcher, *notificationRepoStub) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	repo := &notificationRepoStub{}
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: repo,
		Enqueuer:         enqueuer,
		Metrics:          observability.NewMetrics(),
	}, nil, config.NotificationConfig{Async: async})
	svc.RegisterHandlers()
	return svc, dispatcher, repo
}

func commentEvent(mentions ...string) events.Event {
	return events.Event{
		Type:  events.EventCommentAdded,
		JobID: "job-1",
		Actor: events.Actor{Email: resumeUser.Email, Name: resumeUser.Name},
		Payload: events.CommentAddedPayload{
			CommentID:   "comment-1",
			ClientName:  "Jane Client",
			Mentions:    mentions,
			BodyPreview: "please check",
		},
	}
}

func TestMentionNotificationsQueuedWhenAsync(t *testing.T) {
	enqueuer := &enqueuerStub{}
	_, dispatcher, repo := newNotificationFixture(enqueuer, true)

	err := dispatcher.Publish(context.Background(), commentEvent(linkedInUser.Email, resumeUser.Email))
	require.NoError(t, err)

	require.Len(t, repo.notifications, 1)
	n := repo.notifications[0]
	assert.Equal(t, linkedInUser.Email, n.RecipientEmail)
	assert.Equal(t, domain.NotificationMention, n.Kind)
	assert.Equal(t, "Rita Resume mentioned you on Jane Client: please check", n.Message)

	require.Len(t, enqueuer.queued, 1)
	assert.Equal(t, n.ID, enqueuer.queued[0].ID)
}

func TestNotificationPersistedWhenEnqueueFails(t *testing.T) {
	enqueuer := &enqueuerStub{err: errors.New("redis down")}
	_, dispatcher, repo := newNotificationFixture(enqueuer, true)

	require.NoError(t, dispatcher.Publish(context.Background(), commentEvent(leadUser.Email)))
	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, enqueuer.queued)
}

func TestNotificationsStayInboxOnlyWhenSync(t *testing.T) {
	enqueuer := &enqueuerStub{}
	_, dispatcher, repo := newNotificationFixture(enqueuer, false)

	require.NoError(t, dispatcher.Publish(context.Background(), commentEvent(leadUser.Email)))
	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, enqueuer.queued)
}

func TestMoveReviewedSkipsSelfReview(t *testing.T) {
	_, dispatcher, repo := newNotificationFixture(nil, false)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:  events.EventMoveReviewed,
		JobID: "job-1",
		Actor: events.Actor{Email: leadUser.Email},
		Payload: events.MoveReviewedPayload{
			RequestedBy: leadUser.Email,
			State:       domain.MoveRequestApproved,
		},
	}))
	assert.Empty(t, repo.notifications)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:  events.EventMoveReviewed,
		JobID: "job-1",
		Actor: events.Actor{Email: leadUser.Email, Name: leadUser.Name},
		Payload: events.MoveReviewedPayload{
			ClientName:  "Jane Client",
			RequestedBy: linkedInUser.Email,
			ToStatus:    domain.StatusLinkedInDone,
			State:       domain.MoveRequestRejected,
			Note:        "missing headline",
		},
	}))
	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "Tom Lead rejected your request to move Jane Client to linkedin_done: missing headline",
		repo.notifications[0].Message)
}

func TestListAndMarkRead(t *testing.T) {
	svc, dispatcher, _ := newNotificationFixture(nil, false)
	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, commentEvent(leadUser.Email)))

	unread, err := svc.List(ctx, leadUser.Email, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.MarkRead(ctx, leadUser.Email, unread[0].ID))
	unread, err = svc.List(ctx, leadUser.Email, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	err = svc.MarkRead(ctx, csmUser.Email, "notification-1")
	requireDomainCode(t, err, apperrors.CodeNotFound)
}
