// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/clinera/clinera/internal/platform/constants"
)

// # Contracts & Types

// Vault abstracts durable client-side token storage so sessions can persist
// across process restarts. It is the Go analog of the browser's localStorage
// slice the web client used.
type Vault interface {
	// Load returns the persisted token, checking the primary key first and
	// then the legacy admin and patient keys. First non-empty value wins.
	// An empty string with a nil error means "no stored session".
	Load() (string, error)

	// Store persists the token under the primary key.
	Store(token string) error

	// Clear removes the primary AND both legacy keys unconditionally.
	Clear() error
}

// vaultKeys is the read priority order. The legacy admin and patient keys
// survive from the split-console era and are still honored on load.
var vaultKeys = []string{
	constants.VaultKeyToken,
	constants.VaultKeyAdminToken,
	constants.VaultKeyPatientToken,
}

// # File Vault

// FileVault stores tokens in a JSON file under the user config directory
// with owner-only permissions.
type FileVault struct {
	mu   sync.Mutex
	path string
}

// NewFileVault creates a [FileVault] rooted at dir.
//
// # Parameters
//   - dir: Vault directory. Empty selects "<user config dir>/clinera".
func NewFileVault(dir string) (*FileVault, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("vault: cannot resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, "clinera")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("vault: cannot create %s: %w", dir, err)
	}

	return &FileVault{path: filepath.Join(dir, constants.VaultFileName)}, nil
}

/*
Load returns the first non-empty token among the known keys.

Description: A missing vault file is not an error, it simply means no session
has been persisted on this machine yet.

Returns:
  - string: The persisted token, or "" when absent
  - error: Read or decode failures
*/
func (vault *FileVault) Load() (string, error) {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	entries, err := vault.read()
	if err != nil {
		return "", err
	}

	// Priority order: primary key, then legacy keys.
	for _, key := range vaultKeys {
		if token := entries[key]; token != "" {
			return token, nil
		}
	}

	return "", nil
}

/*
Store persists the token under the primary key.

Parameters:
  - token: The bearer credential to persist

Returns:
  - error: Write failures
*/
func (vault *FileVault) Store(token string) error {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	entries, err := vault.read()
	if err != nil {
		return err
	}

	entries[constants.VaultKeyToken] = token
	return vault.write(entries)
}

/*
Clear removes all known token keys unconditionally.

Description: Logout must leave no credential behind regardless of which legacy
console stored it, so every key is removed even if the session was loaded from
just one of them.

Returns:
  - error: Write failures
*/
func (vault *FileVault) Clear() error {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	entries, err := vault.read()
	if err != nil {
		return err
	}

	for _, key := range vaultKeys {
		delete(entries, key)
	}
	return vault.write(entries)
}

// read loads the vault file into a key map. Missing file yields an empty map.
func (vault *FileVault) read() (map[string]string, error) {
	data, err := os.ReadFile(vault.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", vault.path, err)
	}

	entries := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("vault: corrupt vault file %s: %w", vault.path, err)
		}
	}
	return entries, nil
}

// write atomically replaces the vault file contents.
func (vault *FileVault) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: encode: %w", err)
	}

	// Write-then-rename keeps a crash from leaving a half-written vault.
	tmp := vault.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("vault: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, vault.path); err != nil {
		return fmt.Errorf("vault: replace %s: %w", vault.path, err)
	}
	return nil
}
