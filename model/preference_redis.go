package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/go-redis/redis/v8"
)

const redisPreferencePrefix = "finlogs:pref:"

// RedisPreferenceStore keeps one hash per profile.
type RedisPreferenceStore struct {
	rdb     redis.Cmdable
	profile string
}

func NewRedisPreferenceStore(rdb redis.Cmdable, profile string) *RedisPreferenceStore {
	return &RedisPreferenceStore{rdb: rdb, profile: profile}
}

func (s *RedisPreferenceStore) hashKey() string {
	return redisPreferencePrefix + s.profile
}

func (s *RedisPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.HGet(ctx, s.hashKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "get redis preference %s", key)
	}
	return v, nil
}

func (s *RedisPreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.HSet(ctx, s.hashKey(), key, value).Err(); err != nil {
		return errors.Wrapf(err, "set redis preference %s", key)
	}
	return nil
}
