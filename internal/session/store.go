// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clinera/clinera/internal/platform/apperr"
	"github.com/clinera/clinera/internal/platform/constants"
	"github.com/clinera/clinera/internal/platform/sec"
)

// Store is the process-wide session singleton.
//
// # Concurrency
//
// All state lives behind one mutex. Mutations publish immutable [Snapshot]
// values to subscribers, so readers never observe a half-applied transition.
//
// # Verification Ordering
//
// Every token transition bumps an internal generation counter. A verification
// round trip captures the generation it was issued for and discards its result
// if the session has moved on, so a slow response for a superseded token can
// never overwrite a newer session.
type Store struct {
	mu      sync.Mutex
	vault   Vault
	fetcher IdentityFetcher
	logger  *slog.Logger

	token     string
	identity  *Identity
	resolving bool

	// generation increments on every token transition (init, login, logout).
	generation uint64
	// verifying is true while a round trip for the CURRENT generation is in
	// flight. Token transitions reset it.
	verifying bool
	// verified is true once the backend confirmed the current token's
	// identity. Token transitions reset it, so every token gets its one
	// verification even when Login supplied an identity up front.
	verified bool

	subscribers []func(Snapshot)
}

// NewStore constructs a [Store] with its dependencies.
//
// The store starts in the resolving state: consumers render a loading
// placeholder until [Store.Initialize] completes or skips the identity check.
func NewStore(vault Vault, fetcher IdentityFetcher, logger *slog.Logger) *Store {
	return &Store{
		vault:     vault,
		fetcher:   fetcher,
		logger:    logger,
		resolving: true,
	}
}

// # Observation

// Snapshot returns an immutable view of the current session state.
func (store *Store) Snapshot() Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshotLocked()
}

// Subscribe registers a callback invoked after every state transition.
//
// Callbacks run outside the store lock and receive the snapshot that caused
// the notification. The store is a page-lifetime singleton, so there is no
// unsubscribe: subscribers live as long as the process.
func (store *Store) Subscribe(callback func(Snapshot)) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.subscribers = append(store.subscribers, callback)
}

// snapshotLocked builds a Snapshot. Caller must hold the lock.
func (store *Store) snapshotLocked() Snapshot {
	state := StateLoggedOut
	switch {
	case store.token == "":
		state = StateLoggedOut
	case store.identity == nil:
		state = StateAuthenticating
	default:
		state = StateAuthenticated
	}

	return Snapshot{
		State:     state,
		Token:     store.token,
		Identity:  store.identity,
		Resolving: store.resolving,
	}
}

// notify publishes the current snapshot to all subscribers.
func (store *Store) notify() {
	store.mu.Lock()
	snapshot := store.snapshotLocked()
	subscribers := make([]func(Snapshot), len(store.subscribers))
	copy(subscribers, store.subscribers)
	store.mu.Unlock()

	for _, callback := range subscribers {
		callback(snapshot)
	}
}

// # Lifecycle

/*
Initialize seeds the session from durable storage at application mount.

Description: Reads the persisted token (primary key first, then the legacy
admin and patient keys). With no token the session settles logged out and the
resolving flag clears; with a token the identity check runs immediately.

Parameters:
  - ctx: context.Context

Returns:
  - error: Never for vault faults (they resolve to logged-out quietly); only
    a classified verification failure that was NOT swallowed, which today is
    none — kept for interface symmetry with Login.
*/
func (store *Store) Initialize(ctx context.Context) error {

	token, err := store.vault.Load()
	if err != nil {
		// A corrupt vault must not brick the client. Treat as logged out.
		store.logger.Warn("token vault unreadable, starting logged out",
			slog.Any("error", err),
		)
		token = ""
	}

	store.mu.Lock()
	if token == "" {
		// No persisted session: resolution is complete without a round trip.
		store.resolving = false
		store.mu.Unlock()
		store.notify()
		return nil
	}

	store.token = token
	store.generation++
	store.verifying = false
	store.verified = false
	store.mu.Unlock()
	store.notify()

	return store.Verify(ctx)
}

/*
Verify runs the "who am I" round trip for the current token.

Description: On 2xx the mapped identity replaces any provisional one. On an
explicit 401/403 the session is torn down (fail closed). On any other failure
the token stays in place and the error is logged and swallowed (fail open), so
transient connectivity loss never logs users out. The resolving flag clears on
every path.

Idempotency: at most one round trip is in flight per token generation, and a
result arriving after the token changed is discarded. A call while the current
token is already verified is a no-op; after a swallowed transient failure a
later call retries, which is how the UI escapes the authenticating limbo.

Parameters:
  - ctx: context.Context

Returns:
  - error: nil in every case the client policy defines; verification failures
    resolve to session state, not to errors
*/
func (store *Store) Verify(ctx context.Context) error {

	store.mu.Lock()

	// No token: nothing to verify, resolution is trivially complete.
	if store.token == "" {
		store.resolving = false
		store.mu.Unlock()
		store.notify()
		return nil
	}

	// Single-flight per generation.
	if store.verifying {
		store.mu.Unlock()
		return nil
	}

	// Already confirmed for this token: exactly one successful check per
	// token. A caller-supplied login identity does not count as confirmation;
	// only a successful round trip sets the flag.
	if store.verified {
		store.resolving = false
		store.mu.Unlock()
		return nil
	}

	generation := store.generation
	token := store.token
	store.verifying = true
	store.mu.Unlock()

	// Bound the round trip so a dead backend cannot pin the resolving state.
	verifyCtx, cancel := context.WithTimeout(ctx, constants.VerifyTimeout)
	defer cancel()

	identity, err := store.fetcher.FetchIdentity(verifyCtx, token)

	store.mu.Lock()
	if store.generation != generation {
		// The session moved on (login/logout) while this round trip was in
		// flight. The newer generation owns all state now; drop the result.
		store.mu.Unlock()
		return nil
	}
	store.verifying = false
	store.resolving = false

	switch {
	case err == nil:
		store.identity = identity
		store.verified = true
		store.mu.Unlock()
		store.notify()
		return nil

	case apperr.IsAuthRejected(err):
		store.mu.Unlock()
		store.logger.Info("session rejected by backend, logging out",
			slog.Int("status", apperr.As(err).HTTPStatus),
		)
		return store.Logout()

	default:
		// Transient fault: keep the token, stay in (or fall back to) the
		// authenticating state until the next trigger.
		store.mu.Unlock()
		store.logger.Warn("identity check failed, keeping session",
			slog.Any("error", err),
		)
		store.notify()
		return nil
	}
}

/*
Login establishes a session for a freshly issued token.

Description: Persists the token, seeds an optimistic identity so the UI never
flashes a logged-out state, then runs the identity check. When the caller has
an identity in hand (the login response body) it is used directly; otherwise a
provisional identity is decoded from the token's unverified claims, and only
kept if the claims carry a known role.

Parameters:
  - ctx: context.Context
  - token: Bearer credential issued by the backend
  - identity: Optional resolved identity from the login response (nil allowed)

Returns:
  - error: Vault persistence failures; verification failures follow the
    Verify policy and never surface here
*/
func (store *Store) Login(ctx context.Context, token string, identity *Identity) error {

	if token == "" {
		return apperr.Unauthorized("Login requires a token")
	}

	// Persist before mutating memory so a crash cannot strand an
	// in-memory-only session.
	if err := store.vault.Store(token); err != nil {
		return err
	}

	store.mu.Lock()
	store.token = token
	store.generation++
	store.verifying = false
	store.verified = false
	store.resolving = false

	switch {
	case identity != nil:
		store.identity = identity
	default:
		store.identity = provisionalIdentity(token)
	}
	store.mu.Unlock()
	store.notify()

	return store.Verify(ctx)
}

/*
Logout tears the session down completely.

Description: Removes every persisted token key (primary, legacy admin, legacy
patient), clears the in-memory token and identity, and notifies subscribers so
the UI can navigate to the login view.

Returns:
  - error: Vault clearing failures; memory is cleared regardless
*/
func (store *Store) Logout() error {

	clearErr := store.vault.Clear()

	store.mu.Lock()
	store.token = ""
	store.identity = nil
	store.resolving = false
	store.generation++
	store.verifying = false
	store.verified = false
	store.mu.Unlock()
	store.notify()

	if clearErr != nil {
		store.logger.Warn("vault clear failed during logout",
			slog.Any("error", clearErr),
		)
		return clearErr
	}

	return nil
}

// provisionalIdentity decodes unverified token claims into a provisional
// identity. Returns nil when the claims are unusable, leaving the session in
// the authenticating state until Verify resolves.
func provisionalIdentity(token string) *Identity {
	claims, err := sec.DecodeClaims(token)
	if err != nil {
		return nil
	}

	role := sec.Role(claims.Role)
	if claims.UserID == "" || !role.Known() {
		return nil
	}

	return &Identity{
		ID:          claims.UserID,
		DisplayName: claims.DisplayName,
		Role:        role,
		Attributes: map[string]interface{}{
			"id":   claims.UserID,
			"name": claims.DisplayName,
			"role": claims.Role,
		},
		Provisional: true,
	}
}
