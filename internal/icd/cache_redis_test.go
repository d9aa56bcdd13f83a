// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinera/clinera/internal/icd"
)

// newRedisCache spins up an in-process Redis and a cache on top of it.
func newRedisCache(t *testing.T) (*icd.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return icd.NewRedisCache(client, 15*time.Minute, discardLogger()), server
}

/*
TestRedisCache_RoundTrip verifies that a stored result set comes back intact
and that unknown keys report a miss.
*/
func TestRedisCache_RoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t)
	ctx := context.Background()

	results := []icd.Result{
		{Code: "MG26", Title: "Fever of other or unknown origin"},
		{Code: "1C62", Title: "Dengue fever"},
	}

	// 1. Miss before the write
	_, found := cache.Get(ctx, "fever")
	assert.False(t, found)

	// 2. Hit after, values intact and ordered
	cache.Set(ctx, "fever", results)
	got, found := cache.Get(ctx, "fever")
	require.True(t, found)
	assert.Equal(t, results, got)

	// 3. Other keys still miss
	_, found = cache.Get(ctx, "cough")
	assert.False(t, found)
}

/*
TestRedisCache_EmptyResultSetIsAHit verifies that "nothing matches" is cached
like any other answer: an empty set is a hit, not a miss.
*/
func TestRedisCache_EmptyResultSetIsAHit(t *testing.T) {
	cache, _ := newRedisCache(t)
	ctx := context.Background()

	cache.Set(ctx, "zzz", []icd.Result{})

	got, found := cache.Get(ctx, "zzz")
	assert.True(t, found)
	assert.Empty(t, got)
}

/*
TestRedisCache_EntriesExpire verifies the TTL: entries vanish after the
configured window elapses.
*/
func TestRedisCache_EntriesExpire(t *testing.T) {
	cache, server := newRedisCache(t)
	ctx := context.Background()

	cache.Set(ctx, "fever", []icd.Result{{Code: "MG26", Title: "Fever"}})
	_, found := cache.Get(ctx, "fever")
	require.True(t, found)

	server.FastForward(16 * time.Minute)

	_, found = cache.Get(ctx, "fever")
	assert.False(t, found)
}

/*
TestRedisCache_CorruptEntryIsAMiss verifies degradation: an undecodable entry
reports a miss instead of failing the lookup.
*/
func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, server := newRedisCache(t)

	require.NoError(t, server.Set("icd:q:fever", "not-json"))

	_, found := cache.Get(context.Background(), "fever")
	assert.False(t, found)
}

/*
TestRedisCache_FaultDegradesToMiss verifies that a dead Redis degrades to
cache misses and swallowed writes; search must keep working without it.
*/
func TestRedisCache_FaultDegradesToMiss(t *testing.T) {
	cache, server := newRedisCache(t)
	ctx := context.Background()

	server.Close()

	_, found := cache.Get(ctx, "fever")
	assert.False(t, found)

	// Write failure must not panic or propagate
	cache.Set(ctx, "fever", []icd.Result{{Code: "MG26", Title: "Fever"}})
}
