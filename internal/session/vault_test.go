// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package session_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinera/clinera/internal/platform/constants"
	"github.com/clinera/clinera/internal/session"
)

// writeVaultFile seeds a vault file with raw key entries.
func writeVaultFile(t *testing.T, dir string, entries map[string]string) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.VaultFileName), data, 0o600))
}

/*
TestFileVault_LoadPriority verifies the legacy key read order: the primary key
wins, then the admin key, then the patient key.
*/
func TestFileVault_LoadPriority(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		want    string
	}{
		{"primary_wins", map[string]string{
			constants.VaultKeyToken:        "primary",
			constants.VaultKeyAdminToken:   "admin",
			constants.VaultKeyPatientToken: "patient",
		}, "primary"},
		{"admin_fallback", map[string]string{
			constants.VaultKeyAdminToken:   "admin",
			constants.VaultKeyPatientToken: "patient",
		}, "admin"},
		{"patient_fallback", map[string]string{
			constants.VaultKeyPatientToken: "patient",
		}, "patient"},
		{"empty_primary_skipped", map[string]string{
			constants.VaultKeyToken:      "",
			constants.VaultKeyAdminToken: "admin",
		}, "admin"},
		{"no_tokens", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeVaultFile(t, dir, tt.entries)

			vault, err := session.NewFileVault(dir)
			require.NoError(t, err)

			token, err := vault.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

/*
TestFileVault_MissingFile verifies that a fresh machine (no vault file) reads
back as "no session" rather than an error.
*/
func TestFileVault_MissingFile(t *testing.T) {
	vault, err := session.NewFileVault(t.TempDir())
	require.NoError(t, err)

	token, err := vault.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

/*
TestFileVault_StoreRoundTrip verifies that a stored token survives a reopen.
*/
func TestFileVault_StoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	// 1. Store through one vault instance
	vault, err := session.NewFileVault(dir)
	require.NoError(t, err)
	require.NoError(t, vault.Store("issued-token"))

	// 2. Read through a fresh instance (process restart)
	reopened, err := session.NewFileVault(dir)
	require.NoError(t, err)
	token, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

/*
TestFileVault_ClearRemovesAllKeys verifies that Clear removes the primary AND
both legacy keys unconditionally.
*/
func TestFileVault_ClearRemovesAllKeys(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, map[string]string{
		constants.VaultKeyToken:        "primary",
		constants.VaultKeyAdminToken:   "admin",
		constants.VaultKeyPatientToken: "patient",
	})

	vault, err := session.NewFileVault(dir)
	require.NoError(t, err)

	// 1. Clear everything
	require.NoError(t, vault.Clear())

	// 2. Nothing loadable anymore
	token, err := vault.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// 3. The file itself holds none of the known keys
	data, err := os.ReadFile(filepath.Join(dir, constants.VaultFileName))
	require.NoError(t, err)
	entries := map[string]string{}
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.NotContains(t, entries, constants.VaultKeyToken)
	assert.NotContains(t, entries, constants.VaultKeyAdminToken)
	assert.NotContains(t, entries, constants.VaultKeyPatientToken)
}

/*
TestFileVault_CorruptFile verifies that a corrupt vault reports an error
instead of silently fabricating a session.
*/
func TestFileVault_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.VaultFileName), []byte("{not json"), 0o600))

	vault, err := session.NewFileVault(dir)
	require.NoError(t, err)

	_, err = vault.Load()
	assert.Error(t, err)
}
