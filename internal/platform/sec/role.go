// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

// Package sec models the authorization-adjacent types of the client core.
//
// # Architecture
//
// The backend is the real authority on access control. Everything in this
// package exists for UX routing and optimistic rendering only, and must never
// be relied on as a security boundary.
package sec

// # User Roles

// Role represents the authorization tag attached to a Clinera account.
//
// The set is closed on purpose: adding a role means extending the switch in
// [Role.FallbackRoute], so an incomplete landing-page mapping is caught at
// review time instead of silently falling through at runtime.
type Role string

const (
	// Front-desk staff managing appointments and patient intake
	RoleReceptionist Role = "receptionist"

	// Clinical assistants preparing visits and inventory
	RoleAssistant Role = "assistant"

	// Licensed doctors with full clinical dashboards
	RoleDoctor Role = "doctor"

	// Product administrators with the admin console
	RoleSuperAdmin Role = "super_admin"
)

// # Landing Pages

// Route is a client-side navigation target (a view path, not a URL).
type Route string

const (
	RouteLogin     Route = "/login"
	RouteReception Route = "/reception"
	RouteAssistant Route = "/assistant"
	RouteDoctor    Route = "/doctor"
	RouteAdmin     Route = "/admin"
)

// Known reports whether the role belongs to the closed set.
func (r Role) Known() bool {
	switch r {
	case RoleReceptionist, RoleAssistant, RoleDoctor, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// FallbackRoute maps a role to its default landing page.
//
// The boolean is false for unrecognized roles: callers must render an inline
// "access denied" state rather than redirect, to avoid redirect loops.
func (r Role) FallbackRoute() (Route, bool) {
	switch r {
	case RoleReceptionist:
		return RouteReception, true
	case RoleAssistant:
		return RouteAssistant, true
	case RoleDoctor:
		return RouteDoctor, true
	case RoleSuperAdmin:
		return RouteAdmin, true
	default:
		return "", false
	}
}
