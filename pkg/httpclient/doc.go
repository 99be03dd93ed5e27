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

// Package httpclient provides the HTTP client used for all Simplex API
// calls, composed from transport layers:
//
//   - Automatic retries with linear backoff for transient failures
//     (connection errors, 429, and 5xx responses)
//   - API key and User-Agent header injection
//   - Request logging with sanitized URLs (sensitive params redacted)
//   - Per-request ID propagation
//   - TLS 1.2+ with connection pooling
//
// Example usage:
//
//	cfg := httpclient.DefaultConfig()
//	cfg.APIKey = "sx-..."
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := client.Get("https://api.simplex.sh/search_workflows")
//
// The retry policy is deliberately linear (attempt × base delay) rather
// than exponential, matching the service's documented client contract.
package httpclient
