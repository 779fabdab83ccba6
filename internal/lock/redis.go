package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockSentinel is the stored value. Presence of the key is the whole
// semantics; the payload carries no meaning.
const lockSentinel = "locked"

// RedisStore adapts a go-redis client to the Store interface.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, lockSentinel, ttl).Result()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
