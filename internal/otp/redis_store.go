package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propertybazaar/server/internal/model"
)

const redisKeyPrefix = "otp:"

// deleteIfMatch deletes KEYS[1] only when its code field equals ARGV[1].
var deleteIfMatch = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'code') == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisStore keeps codes in a hash per contact. Keys expire on their own once the
// retention period after expiresAt has passed, so no sweep is needed.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore creates a Store backed by client
func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func redisKey(contact string) string {
	return redisKeyPrefix + contact
}

func (s *RedisStore) Put(ctx context.Context, contact string, rec model.OtpRecord) error {
	key := redisKey(contact)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			"code":       rec.Code,
			"expires_at": rec.ExpiresAt.UnixMilli(),
		})
		pipe.PExpireAt(ctx, key, rec.ExpiresAt.Add(s.retention))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put otp: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, contact string) (model.OtpRecord, error) {
	vals, err := s.client.HGetAll(ctx, redisKey(contact)).Result()
	if err != nil {
		return model.OtpRecord{}, fmt.Errorf("redis get otp: %w", err)
	}
	if len(vals) == 0 {
		return model.OtpRecord{}, fmt.Errorf("redis store: %w", model.ErrOTPNotFound)
	}
	ms, err := strconv.ParseInt(vals["expires_at"], 10, 64)
	if err != nil {
		return model.OtpRecord{}, fmt.Errorf("redis otp expires_at: %w", err)
	}
	return model.OtpRecord{Code: vals["code"], ExpiresAt: time.UnixMilli(ms)}, nil
}

func (s *RedisStore) DeleteIfMatch(ctx context.Context, contact, code string) (bool, error) {
	n, err := deleteIfMatch.Run(ctx, s.client, []string{redisKey(contact)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("redis delete otp: %w", err)
	}
	return n == 1, nil
}
