// Package redisstore keeps the wizard progress in a Redis hash, one hash per namespace.
package redisstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
)

type Store struct {
	client *redis.Client
	key    string
}

var _ setup.ProgressStore = (*Store)(nil)

// NewClient opens and pings a Redis client.
func NewClient(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func New(client *redis.Client, prefix, namespace string) *Store {
	return &Store{client: client, key: Key(prefix, "wizard", namespace)}
}

// Key joins parts with ":".
func Key(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ":")
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Wrapf(err, "HGET %s %s", s.key, key)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return errors.Wrapf(s.client.HSet(ctx, s.key, key, value).Err(), "HSET %s %s", s.key, key)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrapf(s.client.HDel(ctx, s.key, keys...).Err(), "HDEL %s", s.key)
}
