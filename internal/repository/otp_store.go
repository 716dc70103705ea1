package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ErrOTPNotFound is returned when no code or trust token is stored.
var ErrOTPNotFound = errors.New("otp entry not found")

// OTPStore keeps short-lived admin OTP codes and the trust tokens issued
// after a successful verification.
type OTPStore interface {
	SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error
	CodeHash(ctx context.Context, email string) (string, error)
	IncrAttempts(ctx context.Context, email string) (int64, error)
	DeleteCode(ctx context.Context, email string) error
	SaveTrust(ctx context.Context, trust domain.OTPTrust, ttl time.Duration) error
	GetTrust(ctx context.Context, token string) (*domain.OTPTrust, error)
}

type redisOTPStore struct {
	client *redis.Client
}

// NewOTPStore constructs a redis-backed OTP store.
func NewOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func otpCodeKey(email string) string {
	return "otp:code:" + strings.ToLower(strings.TrimSpace(email))
}

func otpTrustKey(token string) string {
	return "otp:trust:" + token
}

func (s *redisOTPStore) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	key := otpCodeKey(email)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "hash", codeHash, "attempts", 0)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save otp: %w", err)
	}
	return nil
}

func (s *redisOTPStore) CodeHash(ctx context.Context, email string) (string, error) {
	hash, err := s.client.HGet(ctx, otpCodeKey(email), "hash").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}
		return "", fmt.Errorf("redis get otp: %w", err)
	}
	return hash, nil
}

// IncrAttempts bumps the failed-attempt counter without extending the TTL.
func (s *redisOTPStore) IncrAttempts(ctx context.Context, email string) (int64, error) {
	key := otpCodeKey(email)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis otp exists: %w", err)
	}
	if exists == 0 {
		return 0, ErrOTPNotFound
	}
	return s.client.HIncrBy(ctx, key, "attempts", 1).Result()
}

func (s *redisOTPStore) DeleteCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpCodeKey(email)).Err()
}

type trustRecord struct {
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

func (s *redisOTPStore) SaveTrust(ctx context.Context, trust domain.OTPTrust, ttl time.Duration) error {
	payload, err := json.Marshal(trustRecord{Email: strings.ToLower(trust.Email), VerifiedAt: trust.VerifiedAt})
	if err != nil {
		return fmt.Errorf("marshal trust: %w", err)
	}
	if err := s.client.Set(ctx, otpTrustKey(trust.TrustToken), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set trust: %w", err)
	}
	return nil
}

func (s *redisOTPStore) GetTrust(ctx context.Context, token string) (*domain.OTPTrust, error) {
	raw, err := s.client.Get(ctx, otpTrustKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("redis get trust: %w", err)
	}
	var record trustRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal trust: %w", err)
	}
	return &domain.OTPTrust{Email: record.Email, TrustToken: token, VerifiedAt: record.VerifiedAt}, nil
}
