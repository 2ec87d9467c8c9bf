package upgradeprompt

import (
	"context"
	"errors"

	"github.com/2beens/traininggrounds/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps prompt timestamps in redis. Keys expire after
// DismissCooldown, nothing older can change a decision.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb: rdb,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.upgradePrompt.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.upgradePrompt.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.rdb.Set(ctx, key, value, DismissCooldown).Err()
}
