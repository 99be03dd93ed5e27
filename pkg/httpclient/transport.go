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
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/simplex-sh/simplex-go/internal/log"
)

// headerTransport wraps an http.RoundTripper to add:
// - X-API-Key and User-Agent header injection
// - Per-request ID for log correlation
// - Request logging with sanitized URLs and duration tracking
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	apiKey    string
}

// newHeaderTransport creates a new header transport that wraps the base transport.
func newHeaderTransport(base http.RoundTripper, userAgent, apiKey string) *headerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &headerTransport{
		base:      base,
		userAgent: userAgent,
		apiKey:    apiKey,
	}
}

// RoundTrip implements http.RoundTripper.
// Logs all requests with method, URL (sanitized), status/error, and duration.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.apiKey != "" && req.Header.Get("X-API-Key") == "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	reqID := req.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	logURL := sanitizeURL(req.URL)

	if err != nil {
		slog.Warn("http request failed",
			"method", req.Method,
			"url", logURL,
			log.RequestIDKey, reqID,
			log.DurationKey, duration,
			"error", err.Error(),
		)
	} else {
		level := slog.LevelDebug
		if resp.StatusCode >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(req.Context(), level, "http request",
			"method", req.Method,
			"url", logURL,
			log.RequestIDKey, reqID,
			"status", resp.StatusCode,
			log.DurationKey, duration,
		)
	}

	return resp, err
}
