package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTokenNotFound is returned when no token is stored under a key
var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps the currently valid access and refresh tokens per user
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// RedisTokenStore stores tokens in Redis with per-key expiry
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisClient builds a client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

// NewRedisTokenStore wraps an existing client
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

// Set stores value under key until ttl elapses
func (s *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get returns the stored value or ErrTokenNotFound
func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Delete removes the given keys. Missing keys are ignored.
func (s *RedisTokenStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// AccessTokenKey is the store key holding a user's access token
func AccessTokenKey(userID uint) string {
	return fmt.Sprintf("access_token_%d", userID)
}

// RefreshTokenKey is the store key holding a user's refresh token
func RefreshTokenKey(userID uint) string {
	return fmt.Sprintf("refresh_token_%d", userID)
}
