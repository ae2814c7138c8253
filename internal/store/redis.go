package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	redisLockTTL   = 10 * time.Second
	redisLockRetry = 50 * time.Millisecond
)

// RedisStore keeps each document in a plain string key under a prefix.
// It also implements Locker with a redislock lease so that several
// processes sharing the same Redis serialize their writes.
type RedisStore struct {
	rdb    *redis.Client
	locker *redislock.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, locker: redislock.New(rdb), prefix: prefix}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStore(rdb, prefix), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Lock takes the store-wide write lease.
func (s *RedisStore) Lock(ctx context.Context) (func(context.Context) error, error) {
	lock, err := s.locker.Obtain(ctx, s.prefix+"lock", redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(redisLockRetry),
	})
	if err != nil {
		return nil, fmt.Errorf("obtain redis lock: %w", err)
	}
	return lock.Release, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
