// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// # Contracts & Types

// Cache stores result sets keyed by normalized query string.
//
// # Why injected?
//
// The web client kept an unbounded, ownerless module-level map that no
// instance could ever evict. Here the cache is an explicit dependency with an
// eviction policy, owned by whoever wires the Searcher; concurrent Searcher
// instances share one lookup cache by sharing one Cache value.
//
// Empty result sets are cached like any other: "nothing matches" is a valid
// answer worth remembering.
type Cache interface {
	// Get returns the cached result set for the key, and whether it exists.
	Get(ctx context.Context, key string) ([]Result, bool)

	// Set stores the result set under the key.
	Set(ctx context.Context, key string, results []Result)
}

// # In-Process Cache

// MemoryCache implements [Cache] on an expiring in-process store.
//
// TTL eviction replaces the web client's never-expire policy: repeated
// searches still skip the network, but a stale code list heals itself within
// one TTL window.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a [MemoryCache].
//
// # Parameters
//   - ttl: How long an entry stays valid.
//   - sweep: How often expired entries are purged.
func NewMemoryCache(ttl, sweep time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, sweep)}
}

// Get returns the cached result set for the key.
func (cache *MemoryCache) Get(_ context.Context, key string) ([]Result, bool) {
	value, found := cache.store.Get(key)
	if !found {
		return nil, false
	}
	results, ok := value.([]Result)
	if !ok {
		return nil, false
	}
	return results, true
}

// Set stores the result set under the key with the default TTL.
func (cache *MemoryCache) Set(_ context.Context, key string, results []Result) {
	cache.store.Set(key, results, gocache.DefaultExpiration)
}
