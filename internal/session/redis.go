package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

// RedisStore keeps each session as two keys, the bearer token and the
// serialized profile, written in one transaction and deleted in one DEL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func tokenKey(sid string) string {
	return fmt.Sprintf("webui:session:%s:token", sid)
}

func profileKey(sid string) string {
	return fmt.Sprintf("webui:session:%s:profile", sid)
}

func (s *RedisStore) Put(ctx context.Context, sid, token string, profile model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(sid), token, s.ttl)
	pipe.Set(ctx, profileKey(sid), data, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Token(ctx context.Context, sid string) (string, error) {
	value, err := s.client.Get(ctx, tokenKey(sid)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Profile(ctx context.Context, sid string) (*model.Profile, error) {
	value, err := s.client.Get(ctx, profileKey(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile model.Profile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		// Unreadable stored data counts as no profile.
		return nil, nil
	}
	return &profile, nil
}

func (s *RedisStore) Authenticated(ctx context.Context, sid string) (bool, error) {
	count, err := s.client.Exists(ctx, tokenKey(sid)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RedisStore) UpdateProfile(ctx context.Context, sid string, profile model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileKey(sid), data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, tokenKey(sid), profileKey(sid)).Err()
}
