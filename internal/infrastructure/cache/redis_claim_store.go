package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lettings/backend/internal/application/report"
	"github.com/lettings/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisClaimStore implements report.ClaimStore using Redis.
// Suitable for distributed deployments where multiple instances must agree
// on which one is generating a report for a given landlord and period.
type RedisClaimStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClaimStore creates a new Redis-based claim store
func NewRedisClaimStore(cfg *config.RedisConfig) (*RedisClaimStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClaimStore{
		client:    client,
		keyPrefix: "report:claim:",
	}, nil
}

// NewRedisClaimStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisClaimStoreWithClient(client *redis.Client, keyPrefix string) *RedisClaimStore {
	if keyPrefix == "" {
		keyPrefix = "report:claim:"
	}
	return &RedisClaimStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim acquires the key for the given TTL. SETNX makes acquisition atomic
// across instances; the TTL bounds how long a crashed holder keeps the key.
func (s *RedisClaimStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim generation key: %w", err)
	}
	return acquired, nil
}

// Release frees the key so a new generation can claim it
func (s *RedisClaimStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release generation key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisClaimStore) Close() error {
	return s.client.Close()
}

// Ensure RedisClaimStore implements ClaimStore
var _ report.ClaimStore = (*RedisClaimStore)(nil)
