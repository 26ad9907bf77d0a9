package redisrepo

import (
	"context"

	"github.com/redis/go-redis/v9"

	redisx "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/redis"
)

// SequenceCounter is a Redis-backed bookingnum.SequenceProvider. INCR is
// atomic, so it is safe to share one counter between dashboard instances
// that cannot reach the primary database sequence table.
type SequenceCounter struct {
	rdb *redis.Client
}

func NewSequenceCounter(rdb *redis.Client) *SequenceCounter {
	return &SequenceCounter{rdb: rdb}
}

func (s *SequenceCounter) Next(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, redisx.KeySequence(key)).Result()
}

func (s *SequenceCounter) Set(ctx context.Context, key string, value int64) error {
	return s.rdb.Set(ctx, redisx.KeySequence(key), value, 0).Err()
}

func (s *SequenceCounter) Reset(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, redisx.KeySequence("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
