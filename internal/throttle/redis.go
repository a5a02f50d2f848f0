package throttle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "applyflow:discover:last:"

// RedisStore shares the slot between instances. Keys expire with the window.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Last(ctx context.Context, user string) (time.Time, bool, error) {
	v, err := s.rdb.Get(ctx, redisKeyPrefix+user).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// A corrupt slot is treated as empty.
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

func (s *RedisStore) Record(ctx context.Context, user string, t time.Time, ttl time.Duration) error {
	return s.rdb.Set(ctx, redisKeyPrefix+user, strconv.FormatInt(t.UnixMilli(), 10), ttl).Err()
}
