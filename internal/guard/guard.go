// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package guard gates the rendering of protected views on session resolution and
role membership.

# Contract

The role allow-list is a UX routing convenience only. The backend enforces the
real authorization on every request; nothing in this package is a security
boundary.

# Evaluation Order

The guard is a four-step state machine evaluated in strict order on every
session snapshot:

 1. Session still resolving      -> loading placeholder
 2. No token                     -> redirect to login
 3. Token but no identity        -> "authenticating" placeholder (limbo)
 4. Identity present             -> allow, or redirect to the role's landing
    page, or an inline access-denied state for unrecognized roles

Step 3 exists because login can set a token before the identity resolves, and
because transient verification failures leave the identity nil indefinitely.
It must stay distinct from step 1 so the UI can tell the two waits apart.
*/
package guard

import (
	"github.com/clinera/clinera/internal/platform/sec"
	"github.com/clinera/clinera/internal/session"
)

// # Outcomes

// Decision is the closed set of render outcomes a guard can produce.
type Decision int

const (
	// DecisionLoading renders the initial loading placeholder (step 1).
	DecisionLoading Decision = iota

	// DecisionLoginRedirect navigates to the login view (step 2).
	DecisionLoginRedirect

	// DecisionAuthenticating renders the limbo placeholder (step 3).
	DecisionAuthenticating

	// DecisionRedirect navigates to the role's landing page (step 4, role
	// outside the allow-list).
	DecisionRedirect

	// DecisionDenied renders an inline access-denied message (step 4,
	// unrecognized role — never a redirect, to avoid redirect loops).
	DecisionDenied

	// DecisionAllow renders the protected children (step 4, role admitted).
	DecisionAllow
)

// String returns the lowercase decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionLoginRedirect:
		return "login_redirect"
	case DecisionAuthenticating:
		return "authenticating"
	case DecisionRedirect:
		return "redirect"
	case DecisionDenied:
		return "denied"
	case DecisionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Outcome pairs a [Decision] with its navigation target, when one applies.
type Outcome struct {
	Decision Decision

	// Route is set for DecisionLoginRedirect and DecisionRedirect.
	Route sec.Route
}

// # Guard

// Guard protects one view subtree with an optional role allow-list.
//
// An empty allow-list admits every authenticated identity; the guard then
// only enforces resolution (steps 1-3).
type Guard struct {
	allowed []sec.Role
}

// New constructs a [Guard] admitting the given roles. No roles means
// "any authenticated user".
func New(allowed ...sec.Role) *Guard {
	return &Guard{allowed: allowed}
}

/*
Evaluate runs the four-step state machine over a session snapshot.

Description: Deterministic and side-effect free; the same snapshot always
produces the same outcome, which is what makes the routing behavior testable
without a UI.

Parameters:
  - snapshot: session.Snapshot (immutable session view)

Returns:
  - Outcome: The render decision plus navigation target when applicable
*/
func (guard *Guard) Evaluate(snapshot session.Snapshot) Outcome {

	// ── 1. Session Resolution ─────────────────────────────────────────────
	if snapshot.Resolving {
		return Outcome{Decision: DecisionLoading}
	}

	// ── 2. Authentication ─────────────────────────────────────────────────
	if snapshot.Token == "" {
		return Outcome{Decision: DecisionLoginRedirect, Route: sec.RouteLogin}
	}

	// ── 3. Identity Limbo ─────────────────────────────────────────────────
	// Token held but identity unresolved: never guess a role here.
	if snapshot.Identity == nil {
		return Outcome{Decision: DecisionAuthenticating}
	}

	// ── 4. Role Membership ────────────────────────────────────────────────
	if len(guard.allowed) == 0 || guard.admits(snapshot.Identity.Role) {
		return Outcome{Decision: DecisionAllow}
	}

	fallback, known := snapshot.Identity.Role.FallbackRoute()
	if !known {
		return Outcome{Decision: DecisionDenied}
	}
	return Outcome{Decision: DecisionRedirect, Route: fallback}
}

// admits reports whether the role is in the allow-list.
func (guard *Guard) admits(role sec.Role) bool {
	for _, allowed := range guard.allowed {
		if allowed == role {
			return true
		}
	}
	return false
}
