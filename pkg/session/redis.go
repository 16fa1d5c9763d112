package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxline/voxline/pkg/models"
)

const redisKeyPrefix = "voxline:session:"

// RedisStore keeps sessions in Redis so voice state survives an engine
// restart mid-call. Redis key expiry provides the eviction policy.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. TTL falls back to DefaultTTL
// when non-positive.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, callID string) (*models.SessionState, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+callID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", callID, err)
	}

	var state models.SessionState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", callID, err)
	}

	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, state *models.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", state.CallID, err)
	}

	err = s.client.Set(ctx, redisKeyPrefix+state.CallID, payload, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", state.CallID, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, callID string) error {
	err := s.client.Del(ctx, redisKeyPrefix+callID).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", callID, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
