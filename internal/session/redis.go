package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	twitterauth "github.com/golden-vcr/twitter-auth"
)

// keyPrefix namespaces our session records within the Redis keyspace
const keyPrefix = "twitter-auth:session:"

// RedisStore persists session state as JSON-encoded values in Redis, with a
// TTL so that abandoned sessions eventually expire on their own
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*twitterauth.OAuthState, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	var state twitterauth.OAuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: failed to decode stored session state: %v", twitterauth.ErrCorruptState, err)
	}
	return validateLoaded(&state)
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, state *twitterauth.OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

func (s *RedisStore) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session state: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan session keys: %w", err)
	}
	return nil
}
