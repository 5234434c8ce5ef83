package statestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/state"
)

// DefaultRedisKey is the key holding the blob when none is configured.
const DefaultRedisKey = "fleetsim:state"

// RedisStore keeps the blob under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects using a redis:// URL.
func NewRedisStore(redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: redis.NewClient(opts), key: key}, nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context) (model.StateView, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.StateView{}, state.ErrNotFound
	}
	if err != nil {
		return model.StateView{}, err
	}
	return state.Decode("redis:"+s.key, data)
}

func (s *RedisStore) Save(ctx context.Context, v model.StateView) error {
	data, err := state.Encode(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }
