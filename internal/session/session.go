// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package session implements the client-side identity and session state layer.

It is the single source of truth for "is anyone logged in, and who" across the
Clinera client. All views consult this package; none mutate auth state on
their own.

# Architecture

  - Store: Orchestrates the session lifecycle (Initialize, Verify, Login, Logout).
  - Vault: Abstracted durable storage for the bearer token (file-backed by default).
  - IdentityFetcher: The "who am I" round trip against the Clinera backend.

# Failure Policy

The session fails closed on explicit auth rejection (401/403 tears it down)
and fails open on transient faults (network errors and 5xx leave the token in
place), so connectivity loss never forcibly logs users out.
*/
package session

import "github.com/clinera/clinera/internal/platform/sec"

// # Session States

// State is the explicit three-state union of the session lifecycle.
//
// Modeling the states as a closed set makes the "token present, identity
// absent" limbo a named case every consumer has to handle, instead of an
// implicit combination of nullable fields.
type State int

const (
	// StateLoggedOut means no token is held. Identity is always nil here.
	StateLoggedOut State = iota

	// StateAuthenticating means a token is held but the identity check has
	// not resolved yet (or keeps failing transiently). UI must not guess a
	// role in this state.
	StateAuthenticating

	// StateAuthenticated means a token is held and an identity is attached.
	// The identity is either backend-confirmed or optimistically seeded at
	// login time (Identity.Provisional distinguishes the two); the identity
	// check still runs and replaces a provisional record wholesale.
	StateAuthenticated
)

// String returns the lowercase state name for logs.
func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// # Identity

// Identity is the resolved user record derived from a valid session token.
//
// It is never partially populated: the store holds either nil or a fully
// mapped record.
type Identity struct {
	ID          string
	DisplayName string
	Role        sec.Role

	// Attributes preserves the backend response verbatim. Heterogeneous user
	// types (doctors, staff, admins) carry different extra fields; views read
	// them from here without the store needing to know the shapes.
	Attributes map[string]interface{}

	// Provisional marks an identity seeded from unverified token claims at
	// login time. It is replaced wholesale once Verify resolves.
	Provisional bool
}

// # Snapshot

// Snapshot is an immutable view of the session handed to subscribers and to
// the route guard. Reading a snapshot never races with store mutations.
type Snapshot struct {
	State     State
	Token     string
	Identity  *Identity
	Resolving bool
}

// LoggedIn reports whether a token is held, resolved or not.
func (s Snapshot) LoggedIn() bool {
	return s.Token != ""
}
