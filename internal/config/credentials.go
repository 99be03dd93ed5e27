// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "simplex"
	keyringUser    = "api-key"

	credentialsFile = "credentials.json"
)

// Keyring calls are indirected so tests can stub out the system store.
var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

type credentials struct {
	APIKey string `json:"api_key"`
}

// SaveAPIKey stores the API key, preferring the system keyring and falling
// back to a 0600 file in the config directory when no keyring is available.
func SaveAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("api key must not be empty")
	}

	if err := keyringSet(keyringService, keyringUser, key); err == nil {
		return nil
	}

	file, err := path(credentialsFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(credentials{APIKey: key}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0600)
}

// ResolveAPIKey returns the stored API key. Precedence: SIMPLEX_API_KEY
// environment variable, then the system keyring, then the credentials file.
// An empty result means the user is not logged in.
func ResolveAPIKey() (string, error) {
	if key := os.Getenv("SIMPLEX_API_KEY"); key != "" {
		return key, nil
	}

	if key, err := keyringGet(keyringService, keyringUser); err == nil && key != "" {
		return key, nil
	}

	file, err := path(credentialsFile)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parsing %s: %w", file, err)
	}
	return creds.APIKey, nil
}

// DeleteAPIKey removes the stored API key from the keyring and the
// credentials file. Missing credentials are not an error.
func DeleteAPIKey() error {
	// A broken keyring must not block the file cleanup.
	if err := keyringDelete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keyring delete failed", "error", err)
	}

	file, err := path(credentialsFile)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MaskKey renders an API key safe for display, keeping only the last four
// characters.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
