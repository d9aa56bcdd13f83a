// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package session

import (
	"context"
	"strconv"

	"github.com/clinera/clinera/internal/platform/constants"
	"github.com/clinera/clinera/internal/platform/httpx"
	"github.com/clinera/clinera/internal/platform/sec"
)

// # Contracts & Types

// IdentityFetcher defines the "who am I" round trip against the backend.
//
// # Why an interface?
//
// Defining IdentityFetcher here decouples the [Store] from the HTTP transport,
// allowing tests to inject doubles without a live backend.
type IdentityFetcher interface {
	// FetchIdentity resolves the identity attached to the token.
	// Implementations must classify failures via the apperr taxonomy so the
	// store can distinguish auth rejection from transient faults.
	FetchIdentity(ctx context.Context, token string) (*Identity, error)
}

// # API Fetcher

// APIIdentityFetcher implements [IdentityFetcher] against GET /auth/me.
type APIIdentityFetcher struct {
	api *httpx.Client
}

// NewIdentityFetcher creates an [APIIdentityFetcher] on the shared API client.
func NewIdentityFetcher(api *httpx.Client) *APIIdentityFetcher {
	return &APIIdentityFetcher{api: api}
}

/*
FetchIdentity calls the identity endpoint and maps the response body.

Description: The backend returns heterogeneous user shapes (doctors, staff,
admins) that share only id/name/role. The generic "name" field is renamed to
the display name the views expect; every other field is preserved verbatim in
Attributes. This is a compatibility shim, not a schema.

Parameters:
  - ctx: context.Context
  - token: Bearer credential to identify

Returns:
  - *Identity: Fully mapped identity record
  - error: Classified [apperr.AppError] on any non-2xx or transport failure
*/
func (fetcher *APIIdentityFetcher) FetchIdentity(ctx context.Context, token string) (*Identity, error) {
	raw := map[string]interface{}{}
	if err := fetcher.api.GetJSON(ctx, constants.PathIdentity, nil, token, &raw); err != nil {
		return nil, err
	}
	return mapIdentity(raw), nil
}

// mapIdentity builds a complete [Identity] from a raw response body.
// The record is fully populated before it is ever handed to the store.
func mapIdentity(raw map[string]interface{}) *Identity {
	name, _ := raw["name"].(string)
	role, _ := raw["role"].(string)

	return &Identity{
		ID:          stringField(raw["id"]),
		DisplayName: name,
		Role:        sec.Role(role),
		Attributes:  raw,
	}
}

// stringField renders an id field that some backend user types send as a
// number and others as a string.
func stringField(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
