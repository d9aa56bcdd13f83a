// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinera/clinera/internal/platform/apperr"
	"github.com/clinera/clinera/internal/platform/httpx"
	"github.com/clinera/clinera/internal/platform/sec"
	"github.com/clinera/clinera/internal/session"
)

// identityServer fakes GET /auth/me with a canned status and body.
func identityServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/auth/me", request.URL.Path)
		assert.Equal(t, "Bearer the-token", request.Header.Get("Authorization"))
		assert.NotEmpty(t, request.Header.Get("X-Request-ID"))

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
}

// apiFetcher builds an APIIdentityFetcher against the test server.
func apiFetcher(t *testing.T, server *httptest.Server) *session.APIIdentityFetcher {
	t.Helper()
	client, err := httpx.NewClient(server.URL, 2*time.Second, discardLogger())
	require.NoError(t, err)
	return session.NewIdentityFetcher(client)
}

/*
TestIdentityFetcher_MapsResponse verifies the compatibility shim: the generic
"name" field becomes the display name while every other response field is
preserved verbatim in Attributes.
*/
func TestIdentityFetcher_MapsResponse(t *testing.T) {
	server := identityServer(t, http.StatusOK,
		`{"id":"doc-7","name":"Dr. Okafor","role":"doctor","speciality":"cardiology","clinic_id":42}`)
	defer server.Close()

	identity, err := apiFetcher(t, server).FetchIdentity(context.Background(), "the-token")
	require.NoError(t, err)

	// 1. Typed fields mapped
	assert.Equal(t, "doc-7", identity.ID)
	assert.Equal(t, "Dr. Okafor", identity.DisplayName)
	assert.Equal(t, sec.RoleDoctor, identity.Role)

	// 2. Extra fields preserved verbatim
	assert.Equal(t, "cardiology", identity.Attributes["speciality"])
	assert.Equal(t, float64(42), identity.Attributes["clinic_id"])
	assert.Equal(t, "Dr. Okafor", identity.Attributes["name"])
}

/*
TestIdentityFetcher_NumericID verifies that backend user types sending numeric
ids still map to a string identity ID.
*/
func TestIdentityFetcher_NumericID(t *testing.T) {
	server := identityServer(t, http.StatusOK, `{"id":118,"name":"Front Desk","role":"receptionist"}`)
	defer server.Close()

	identity, err := apiFetcher(t, server).FetchIdentity(context.Background(), "the-token")
	require.NoError(t, err)

	assert.Equal(t, "118", identity.ID)
	assert.Equal(t, sec.RoleReceptionist, identity.Role)
}

/*
TestIdentityFetcher_Classification verifies the failure taxonomy the store
branches on: 401/403 are auth rejections, 5xx is transient.
*/
func TestIdentityFetcher_Classification(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		authRejected bool
		transient    bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"forbidden", http.StatusForbidden, true, false},
		{"server_error", http.StatusInternalServerError, false, true},
		{"bad_gateway", http.StatusBadGateway, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := identityServer(t, tt.status, `{}`)
			defer server.Close()

			_, err := apiFetcher(t, server).FetchIdentity(context.Background(), "the-token")
			require.Error(t, err)
			assert.Equal(t, tt.authRejected, apperr.IsAuthRejected(err))
			assert.Equal(t, tt.transient, apperr.IsTransient(err))
		})
	}
}

/*
TestIdentityFetcher_TransportFailure verifies that an unreachable backend
classifies as transient, never as an auth rejection.
*/
func TestIdentityFetcher_TransportFailure(t *testing.T) {
	server := identityServer(t, http.StatusOK, `{}`)
	server.Close() // connection refused from here on

	_, err := apiFetcher(t, server).FetchIdentity(context.Background(), "the-token")
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
	assert.False(t, apperr.IsAuthRejected(err))
}
