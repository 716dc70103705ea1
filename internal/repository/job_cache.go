package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ErrCacheMiss signals that a job detail is not cached.
var ErrCacheMiss = errors.New("cache miss")

// DefaultJobCacheTTL bounds how long a job detail stays cached.
const DefaultJobCacheTTL = 5 * time.Minute

// JobCache stores fully loaded job details keyed by id.
type JobCache interface {
	Get(ctx context.Context, id string) (*domain.Job, error)
	Set(ctx context.Context, job *domain.Job) error
	Invalidate(ctx context.Context, id string) error
}

type redisJobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobCache constructs a redis-backed job detail cache; ttl <= 0 uses DefaultJobCacheTTL.
func NewJobCache(client *redis.Client, ttl time.Duration) JobCache {
	if ttl <= 0 {
		ttl = DefaultJobCacheTTL
	}
	return &redisJobCache{client: client, ttl: ttl}
}

func jobCacheKey(id string) string {
	return "onboarding:job:" + id
}

func (c *redisJobCache) Get(ctx context.Context, id string) (*domain.Job, error) {
	if c.client == nil {
		return nil, ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, jobCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("unmarshal cached job %s: %w", id, err)
	}
	return &job, nil
}

func (c *redisJobCache) Set(ctx context.Context, job *domain.Job) error {
	if c.client == nil || job == nil {
		return nil
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}
	if err := c.client.Set(ctx, jobCacheKey(job.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", job.ID, err)
	}
	return nil
}

func (c *redisJobCache) Invalidate(ctx context.Context, id string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, jobCacheKey(id)).Err()
}
