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

package sdk

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production Simplex API address.
const DefaultBaseURL = "https://api.simplex.sh"

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the API base address.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return fmt.Errorf("base URL must not be empty")
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be > 0, got %v", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithMaxRetries sets the maximum number of retries for transient
// failures. Default: 3. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("max retries must be >= 0, got %d", n)
		}
		c.maxRetries = n
		return nil
	}
}

// WithRetryDelay sets the base backoff delay; the wait before retry n is
// n times this value. Default: 1s.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("retry delay must be > 0, got %v", d)
		}
		c.retryDelay = d
		return nil
	}
}

// WithHTTPClient replaces the request client entirely. Retry, auth header,
// and logging behavior become the caller's responsibility. The streaming
// client is unaffected.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = client
		return nil
	}
}
