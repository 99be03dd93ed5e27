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

package httpclient

import (
	"fmt"
	"time"
)

// Config configures the HTTP client with timeout, retry, and auth settings.
type Config struct {
	// Timeout is the per-request timeout. Default: 30s.
	// Ignored when NoTimeout is set.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts after the initial
	// try (0 = no retries). Default: 3.
	MaxRetries int

	// RetryDelay is the base delay between retries. The wait before retry
	// attempt n is n × RetryDelay. Default: 1s.
	RetryDelay time.Duration

	// UserAgent is the User-Agent header value. Required.
	UserAgent string

	// APIKey is sent as the X-API-Key header on every request.
	// Empty means no auth header (the server will reject the call).
	APIKey string

	// NoTimeout disables the request and response-header timeouts.
	// Used for the event-stream client, which may sit idle for long
	// periods between events.
	NoTimeout bool
}

// DefaultConfig returns a Config with the SDK defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
		UserAgent:  "simplex-go/" + Version,
	}
}

// Version is the SDK version reported in the default User-Agent.
const Version = "0.1.0"

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 && !c.NoTimeout {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}

	if c.MaxRetries > 0 && c.RetryDelay <= 0 {
		return fmt.Errorf("retry_delay must be > 0 when max_retries > 0, got %v", c.RetryDelay)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}

	return nil
}
