package credstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps credentials in a hash that expires after ttl.
type RedisStore struct {
	rdb     *redis.Client
	profile string
	ttl     time.Duration
}

func NewRedisStore(rdb *redis.Client, profile string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, profile: profile, ttl: ttl}
}

func sessionKey(profile string) string {
	return fmt.Sprintf("hos:session:%s", profile)
}

func (s *RedisStore) Load(ctx context.Context) (Credentials, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(s.profile)).Result()
	if err != nil {
		return Credentials{}, fmt.Errorf("credstore: redis load: %w", err)
	}
	c := Credentials{Token: vals["token"], Username: vals["username"]}
	if !c.Valid() {
		return Credentials{}, ErrNoCredentials
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, c Credentials) error {
	key := sessionKey(s.profile)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "token", c.Token, "username", c.Username)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("credstore: redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, sessionKey(s.profile)).Err(); err != nil {
		return fmt.Errorf("credstore: redis clear: %w", err)
	}
	return nil
}
