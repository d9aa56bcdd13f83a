// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package constants provides centralized, immutable values for the client core.

It defines default timeouts, search tuning parameters, and cross-cutting keys
shared between the session, guard, and search layers.

Categories:

  - Client Timing: Timeouts for outbound API calls.
  - Search Tuning: Debounce windows, query gates, and viewport geometry.
  - Storage: Durable token vault key names (including legacy keys).

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the component logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "clinera-client"
	AppVersion = "0.3.0-dev"
)

// # Client Timing

const (
	// DefaultRequestTimeout is the deadline for a single outbound API call.
	DefaultRequestTimeout = 10 * time.Second

	// VerifyTimeout bounds the identity check so a dead backend cannot hold
	// the session in the resolving state forever.
	VerifyTimeout = 8 * time.Second
)

// # Search Tuning

const (
	// DebounceWindow is the quiescence delay between the last keystroke and
	// the promotion of the raw query to a lookup.
	DebounceWindow = 200 * time.Millisecond

	// MinQueryRunes is the minimum promoted query length that triggers a
	// network lookup. Shorter queries are too broad to be useful.
	MinQueryRunes = 2

	// SearchRateLimit is the sustained outbound lookups per second allowed
	// against the code search endpoint.
	SearchRateLimit = 5.0

	// SearchRateBurst is the burst capacity of the search rate limiter.
	SearchRateBurst = 10
)

// # Viewport Geometry

const (
	// RowHeight is the fixed pixel height of a single result row.
	RowHeight = 48

	// VisibleRows is the number of rows that fit in the result viewport.
	VisibleRows = 6

	// BufferRows is the number of extra rows materialized above and below
	// the viewport to avoid visible popping during fast scroll.
	BufferRows = 4
)

// # Cache Taxonomy

const (
	// QueryCacheTTL is how long a cached result set stays valid.
	QueryCacheTTL = 15 * time.Minute

	// QueryCacheSweep is how often expired entries are purged from the
	// in-process cache.
	QueryCacheSweep = 5 * time.Minute

	// RedisPrefixQuery is the key prefix for shared query cache entries.
	RedisPrefixQuery = "icd:q:"
)

// # Durable Storage

const (
	// VaultFileName is the token vault file under the user config directory.
	VaultFileName = "credentials.json"

	// VaultKeyToken is the primary persisted token key.
	VaultKeyToken = "token"

	// VaultKeyAdminToken is the legacy admin-console token key.
	VaultKeyAdminToken = "admin_token"

	// VaultKeyPatientToken is the legacy patient-portal token key.
	VaultKeyPatientToken = "patient_token"
)

// # API Paths

const (
	// PathIdentity is the "who am I" endpoint consulted on session init.
	PathIdentity = "/auth/me"

	// PathCodeSearch is the ICD-11 code search endpoint.
	PathCodeSearch = "/icd/search"
)
