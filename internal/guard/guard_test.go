// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinera/clinera/internal/guard"
	"github.com/clinera/clinera/internal/platform/sec"
	"github.com/clinera/clinera/internal/session"
)

// identityWith builds a resolved identity carrying the given role.
func identityWith(role sec.Role) *session.Identity {
	return &session.Identity{
		ID:          "user-1",
		DisplayName: "Test User",
		Role:        role,
		Attributes:  map[string]interface{}{"role": string(role)},
	}
}

/*
TestGuard_EvaluationOrder verifies the strict four-step ordering: resolution
before authentication, authentication before limbo, limbo before roles.
*/
func TestGuard_EvaluationOrder(t *testing.T) {
	gate := guard.New(sec.RoleDoctor)

	tests := []struct {
		name     string
		snapshot session.Snapshot
		want     guard.Decision
		route    sec.Route
	}{
		{
			// Resolving wins even while a token is already present
			"resolving_renders_loading",
			session.Snapshot{State: session.StateAuthenticating, Token: "abc", Resolving: true},
			guard.DecisionLoading, "",
		},
		{
			"no_token_redirects_to_login",
			session.Snapshot{State: session.StateLoggedOut},
			guard.DecisionLoginRedirect, sec.RouteLogin,
		},
		{
			// Property: limbo renders the authenticating placeholder, never a
			// login redirect and never the protected children
			"limbo_renders_authenticating",
			session.Snapshot{State: session.StateAuthenticating, Token: "abc"},
			guard.DecisionAuthenticating, "",
		},
		{
			"admitted_role_renders_children",
			session.Snapshot{
				State:    session.StateAuthenticated,
				Token:    "abc",
				Identity: identityWith(sec.RoleDoctor),
			},
			guard.DecisionAllow, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := gate.Evaluate(tt.snapshot)
			assert.Equal(t, tt.want, outcome.Decision)
			assert.Equal(t, tt.route, outcome.Route)
		})
	}
}

/*
TestGuard_RoleFallbackDeterminism verifies that an identity outside the
allow-list always lands on its own dashboard: an assistant hitting a
doctor-only view goes to the assistant dashboard, never to login.
*/
func TestGuard_RoleFallbackDeterminism(t *testing.T) {
	gate := guard.New(sec.RoleDoctor)

	tests := []struct {
		name string
		role sec.Role
		want sec.Route
	}{
		{"assistant_to_assistant_dashboard", sec.RoleAssistant, sec.RouteAssistant},
		{"receptionist_to_reception_dashboard", sec.RoleReceptionist, sec.RouteReception},
		{"admin_to_admin_dashboard", sec.RoleSuperAdmin, sec.RouteAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := session.Snapshot{
				State:    session.StateAuthenticated,
				Token:    "valid-token",
				Identity: identityWith(tt.role),
			}

			// Deterministic across repeated evaluations
			for i := 0; i < 3; i++ {
				outcome := gate.Evaluate(snapshot)
				assert.Equal(t, guard.DecisionRedirect, outcome.Decision)
				assert.Equal(t, tt.want, outcome.Route)
			}
		})
	}
}

/*
TestGuard_UnrecognizedRoleDenied verifies that a role outside the closed set
renders an inline denial instead of redirecting, so a misconfigured account
can never enter a redirect loop.
*/
func TestGuard_UnrecognizedRoleDenied(t *testing.T) {
	gate := guard.New(sec.RoleDoctor)
	snapshot := session.Snapshot{
		State:    session.StateAuthenticated,
		Token:    "valid-token",
		Identity: identityWith(sec.Role("janitor")),
	}

	outcome := gate.Evaluate(snapshot)
	assert.Equal(t, guard.DecisionDenied, outcome.Decision)
	assert.Empty(t, outcome.Route)
}

/*
TestGuard_EmptyAllowListAdmitsAnyRole verifies that a guard with no
allow-list only enforces resolution and authentication.
*/
func TestGuard_EmptyAllowListAdmitsAnyRole(t *testing.T) {
	gate := guard.New()

	for _, role := range []sec.Role{sec.RoleDoctor, sec.RoleAssistant, sec.Role("janitor")} {
		snapshot := session.Snapshot{
			State:    session.StateAuthenticated,
			Token:    "valid-token",
			Identity: identityWith(role),
		}
		assert.Equal(t, guard.DecisionAllow, gate.Evaluate(snapshot).Decision, "role %s", role)
	}
}
