// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinera/clinera/internal/platform/constants"
)

// # Shared Cache

// RedisCache implements [Cache] on a shared Redis instance, so the terminal
// clients of one clinic warm a single ICD lookup cache between them.
//
// Redis faults degrade to cache misses: a broken cache must never break
// search itself.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache creates a [RedisCache] with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

/*
Get returns the cached result set for the key.

Description: A missing key and a Redis fault both report a miss; faults are
additionally logged at Warn.

Parameters:
  - ctx: context.Context
  - key: Normalized query string

Returns:
  - []Result: Decoded result set on a hit
  - bool: Whether the entry existed
*/
func (cache *RedisCache) Get(ctx context.Context, key string) ([]Result, bool) {
	payload, err := cache.client.Get(ctx, constants.RedisPrefixQuery+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("query cache read failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal(payload, &results); err != nil {
		cache.logger.Warn("query cache entry corrupt, discarding",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}

	return results, true
}

/*
Set stores the result set under the key with the configured TTL.

Description: Write failures are logged and swallowed; the caller already has
the results in hand.

Parameters:
  - ctx: context.Context
  - key: Normalized query string
  - results: Result set to cache (empty allowed)
*/
func (cache *RedisCache) Set(ctx context.Context, key string, results []Result) {
	payload, err := json.Marshal(results)
	if err != nil {
		cache.logger.Warn("query cache encode failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	if err := cache.client.Set(ctx, constants.RedisPrefixQuery+key, payload, cache.ttl).Err(); err != nil {
		cache.logger.Warn("query cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
