package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

func TestDetailCacheHoverDebounces(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	cache := NewDetailCache(backend.GetJob, 20*time.Millisecond, nil)

	cache.Hover("job-1")
	cache.Hover("job-1")
	cache.Hover("job-1")

	assert.Eventually(t, func() bool {
		_, ok := cache.Get("job-1")
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, backend.fetchCount("job-1"))
}

func TestDetailCacheLeaveCancels(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	cache := NewDetailCache(backend.GetJob, 30*time.Millisecond, nil)

	cache.Hover("job-1")
	cache.Leave("job-1")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, backend.fetchCount("job-1"))
}

func TestDetailCacheOpenUsesCache(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	cache := NewDetailCache(backend.GetJob, time.Millisecond, nil)
	store := NewStore()

	_, err := cache.Open(context.Background(), store, "job-1")
	require.NoError(t, err)
	_, err = cache.Open(context.Background(), store, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.fetchCount("job-1"))

	cache.Invalidate("job-1")
	_, err = cache.Open(context.Background(), store, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.fetchCount("job-1"))
}

func TestDetailCacheOpenDiscardsStaleResult(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"}, domain.Job{ID: "job-2"})
	backend.block = make(chan struct{})
	cache := NewDetailCache(backend.GetJob, time.Millisecond, nil)
	store := NewStore()

	done := make(chan error, 1)
	go func() {
		_, err := cache.Open(context.Background(), store, "job-1")
		done <- err
	}()

	assert.Eventually(t, func() bool { return store.IsSelected("job-1") }, time.Second, time.Millisecond)
	store.SetSelectedJob("job-2")
	close(backend.block)

	assert.ErrorIs(t, <-done, ErrStale)
	_, ok := cache.Get("job-1")
	assert.False(t, ok)
}

func TestDetailCacheInvalidateDropsInFlightPrefetch(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1", ClientName: "Before"})
	backend.block = make(chan struct{})
	started := make(chan struct{}, 1)
	fetch := func(ctx context.Context, id string) (domain.Job, error) {
		started <- struct{}{}
		return backend.GetJob(ctx, id)
	}
	cache := NewDetailCache(fetch, time.Millisecond, nil)

	cache.Hover("job-1")
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("prefetch did not start")
	}
	cache.Invalidate("job-1")
	close(backend.block)

	assert.Eventually(t, func() bool { return backend.fetchCount("job-1") == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	_, ok := cache.Get("job-1")
	assert.False(t, ok)

	cache.Hover("job-1")
	<-started
	assert.Eventually(t, func() bool {
		_, ok := cache.Get("job-1")
		return ok
	}, time.Second, time.Millisecond)
}

func TestDetailCacheInvalidateDropsInFlightOpen(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	backend.block = make(chan struct{})
	started := make(chan struct{}, 1)
	fetch := func(ctx context.Context, id string) (domain.Job, error) {
		started <- struct{}{}
		return backend.GetJob(ctx, id)
	}
	cache := NewDetailCache(fetch, time.Millisecond, nil)
	store := NewStore()

	done := make(chan error, 1)
	go func() {
		_, err := cache.Open(context.Background(), store, "job-1")
		done <- err
	}()
	<-started
	cache.Invalidate("job-1")
	close(backend.block)

	require.NoError(t, <-done)
	_, ok := cache.Get("job-1")
	assert.False(t, ok)
}

func TestPollerRefreshKeepsStateOnFailure(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	backend.roles = domain.RoleDirectory{CSMs: []domain.DirectoryEntry{{Email: "csm@portal.io"}}}
	store := NewStore()
	poller := NewPoller(store, backend, time.Hour, nil)

	require.NoError(t, poller.Refresh(context.Background()))
	assert.Len(t, store.Jobs(), 1)
	assert.Len(t, store.Roles().CSMs, 1)

	backend.setFail(true)
	require.Error(t, poller.Refresh(context.Background()))
	assert.Len(t, store.Jobs(), 1)
	assert.False(t, store.Loading())
}

func TestPollerRunTicks(t *testing.T) {
	backend := newFakeBackend(domain.Job{ID: "job-1"})
	store := NewStore()
	poller := NewPoller(store, backend, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	refreshed := make(chan struct{}, 10)
	go func() {
		_ = poller.Run(ctx, func() { refreshed <- struct{}{} })
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-refreshed:
		case <-time.After(time.Second):
			t.Fatal("poller did not refresh")
		}
	}
	cancel()
}
