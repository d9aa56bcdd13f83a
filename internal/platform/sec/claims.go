// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package sec

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the Clinera access-token payload the client
// can use for optimistic rendering before the identity check completes.
type TokenClaims struct {
	jwt.RegisteredClaims

	UserID      string `json:"uid"`
	DisplayName string `json:"name"`
	Role        string `json:"rol"`
}

// DecodeClaims extracts the claims from a JWT access token WITHOUT verifying
// its signature.
//
// # Why unverified?
//
// The client never holds the backend's signing key, and does not need to: the
// decoded claims only seed a provisional identity so the UI avoids a flash of
// logged-out state while the real identity check ([session.Store.Verify]) is
// in flight. The backend re-validates the token on every request regardless.
func DecodeClaims(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("sec: failed to decode token claims: %w", err)
	}

	return claims, nil
}
