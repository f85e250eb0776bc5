package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"roomm8/models"
	"roomm8/utils"
)

// RedisStore implements Store on top of go-redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) SaveSession(ctx context.Context, id string, sess models.AuthSession) error {
	ttl := s.ttl
	if !sess.ExpiresAt.IsZero() {
		if until := time.Until(sess.ExpiresAt); until > 0 && until < ttl {
			ttl = until
		}
	}
	return s.setJSON(ctx, utils.AuthSessionPrefix+id, sess, ttl)
}

func (s *RedisStore) LoadSession(ctx context.Context, id string) (*models.AuthSession, error) {
	data, err := s.client.Get(ctx, utils.AuthSessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w", err)
	}
	var sess models.AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, utils.AuthSessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *RedisStore) SavePendingCart(ctx context.Context, id string, drafts []models.BookingDraft) error {
	if drafts == nil {
		drafts = []models.BookingDraft{}
	}
	return s.setJSON(ctx, utils.PendingCartPrefix+id, drafts, s.ttl)
}

func (s *RedisStore) TakePendingCart(ctx context.Context, id string) ([]models.BookingDraft, error) {
	data, err := s.take(ctx, utils.PendingCartPrefix+id)
	if err != nil {
		return nil, err
	}
	var drafts []models.BookingDraft
	if err := json.Unmarshal([]byte(data), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return drafts, nil
}

func (s *RedisStore) SaveRedirect(ctx context.Context, id string, route string) error {
	if err := s.client.Set(ctx, utils.RedirectPrefix+id, route, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set redirect failed: %w", err)
	}
	return nil
}

func (s *RedisStore) TakeRedirect(ctx context.Context, id string) (string, error) {
	return s.take(ctx, utils.RedirectPrefix+id)
}

func (s *RedisStore) ClearPending(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, utils.PendingCartPrefix+id, utils.RedirectPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis clear pending failed: %w", err)
	}
	return nil
}

// take reads and deletes a key in one MULTI/EXEC so a value is handed out once.
func (s *RedisStore) take(ctx context.Context, key string) (string, error) {
	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis take failed: %w", err)
	}
	val, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
