package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lodge/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanBatchSize         = 100

	// Nil is returned by Get when the key is missing or expired.
	Nil = redis.Nil
)

type RedisCache interface {
	// Save stores value for ttl seconds. Strings are stored as is, anything else as JSON.
	Save(ctx context.Context, key string, value any, ttl int) error
	Get(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key matching pattern.
	Clear(ctx context.Context, pattern string) error
	// Increment bumps a counter and starts its expiry on the first hit of a window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, otl otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   otl,
	}
}

func (c *redisCache) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+operation)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

func (c *redisCache) Save(ctx context.Context, key string, value any, ttl int) error {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()

	payload, ok := value.(string)
	if !ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("key", key).Msg("failed to encode cache value")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}

		payload = string(encoded)
	}

	if err := c.client.Set(ctx, key, payload, time.Duration(ttl)*time.Second).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Int("ttl", ttl).Msg("cache saved")

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string, value any) error {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	payload, err := c.client.Get(ctx, key).Result()
	if err != nil {
		// a miss is routine and not traced
		if !errors.Is(err, Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if target, ok := value.(*string); ok {
		*target = payload

		return nil
	}

	if err = json.Unmarshal([]byte(payload), value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to decode cache value")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()

	if err := c.client.Del(ctx, key).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Clear(ctx context.Context, pattern string) error {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()

	iter := c.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()

	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("pattern", pattern).Int("keys", len(keys)).Msg("failed to clear cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, scope := c.scope(ctx, "Increment", key)
	defer scope.End()

	var incr *redis.IntCmd

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)

		return nil
	})
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	return incr.Val(), nil
}
