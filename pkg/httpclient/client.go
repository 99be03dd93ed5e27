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
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// New creates a new HTTP client with the given configuration.
// The client includes:
//   - Retry logic with linear backoff (configurable)
//   - API key, User-Agent, and request ID header injection
//   - Request logging with sanitized URLs
//   - TLS 1.2 minimum, TLS 1.3 preferred
//   - Connection pooling with sensible defaults
//
// Returns an error if the configuration is invalid.
func New(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !cfg.NoTimeout {
		baseTransport.ResponseHeaderTimeout = cfg.Timeout
	}

	// Layer 1: Header/logging transport (innermost custom layer)
	// Sets X-API-Key, User-Agent, request ID; logs each request.
	headerTrans := newHeaderTransport(baseTransport, cfg.UserAgent, cfg.APIKey)

	// Layer 2: Retry transport (outermost custom layer)
	// Only applied if retries are enabled.
	var finalTransport http.RoundTripper = headerTrans
	if cfg.MaxRetries > 0 {
		finalTransport = newRetryTransport(headerTrans, cfg)
	}

	client := &http.Client{Transport: finalTransport}
	if !cfg.NoTimeout {
		// The overall budget covers every attempt plus the backoff between
		// them; per-attempt limits are enforced by ResponseHeaderTimeout.
		attempts := time.Duration(cfg.MaxRetries + 1)
		backoff := cfg.RetryDelay * time.Duration(cfg.MaxRetries*(cfg.MaxRetries+1)/2)
		client.Timeout = cfg.Timeout*attempts + backoff
	}
	return client, nil
}
