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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Config is the optional config.yaml in the config directory. All fields
// are optional; the zero value means "use defaults".
type Config struct {
	// BaseURL overrides the API base address.
	BaseURL string `yaml:"base_url,omitempty"`
	// TimeoutSeconds overrides the per-request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	// MaxRetries overrides the retry count for transient failures.
	MaxRetries *int `yaml:"max_retries,omitempty"`
}

// Load reads config.yaml from the config directory. A missing file yields
// the zero Config.
func Load() (*Config, error) {
	file, err := path(configFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(file), err)
	}
	return &cfg, nil
}

// Save writes config.yaml to the config directory.
func (c *Config) Save() error {
	file, err := path(configFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0600)
}

// ResolveBaseURL returns the API base address: the SIMPLEX_BASE_URL
// environment variable, then config.yaml, then empty for the built-in
// default.
func ResolveBaseURL() (string, error) {
	if base := os.Getenv("SIMPLEX_BASE_URL"); base != "" {
		return base, nil
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.BaseURL, nil
}
