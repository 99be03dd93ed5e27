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
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// retryTransport wraps an http.RoundTripper to add retry logic with linear
// backoff. A request is retried when no response was obtained (connection
// failure) or the response status is 429 or >= 500; every other status is
// passed through immediately.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	retryDelay time.Duration
}

// newRetryTransport creates a new retry transport that wraps the base transport.
func newRetryTransport(base http.RoundTripper, cfg Config) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &retryTransport{
		base:       base,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// RoundTrip implements http.RoundTripper with retry logic.
//
// Unlike the usual idempotency rules, mutations are retried too: every
// Simplex mutation is safe to re-submit, and transient 5xx responses from
// the session routers are common enough that POSTs must not fail fast.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	var lastHeader http.Header

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * t.retryDelay

			// A Retry-After from the previous response may shorten the
			// wait, never lengthen it; the linear policy is the ceiling.
			if ra := parseRetryAfter(lastHeader); ra > 0 && ra < delay {
				delay = ra
			}

			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		attemptReq := req
		if attempt > 0 && req.Body != nil {
			if req.GetBody == nil {
				if lastErr == nil {
					lastErr = errors.New("httpclient: request body is not replayable")
				}
				return nil, lastErr
			}
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq = req.Clone(req.Context())
			attemptReq.Body = body
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			if !isRetryableError(err) {
				return nil, err
			}
			lastErr = err
			lastHeader = nil
			continue
		}

		if !shouldRetryStatus(resp.StatusCode) || attempt == t.maxRetries {
			// Final attempt returns the response as-is so the caller can
			// map the status and read the body.
			return resp, nil
		}

		lastErr = nil
		lastHeader = resp.Header.Clone()
		resp.Body.Close()
	}

	return nil, lastErr
}

// shouldRetryStatus determines if an HTTP status code should trigger a retry.
func shouldRetryStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// isRetryableError determines if a transport error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is not retryable.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return isRetryableError(urlErr.Err)
	}

	// Common transient failures that don't implement net.Error.
	errMsg := strings.ToLower(err.Error())
	transientKeywords := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network unreachable",
		"eof",
	}

	for _, keyword := range transientKeywords {
		if strings.Contains(errMsg, keyword) {
			return true
		}
	}

	return false
}

// parseRetryAfter extracts a Retry-After value from the given headers.
// Supports both seconds (integer) and HTTP-date formats.
// Returns 0 if the header is missing or invalid.
func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if retryTime, err := http.ParseTime(value); err == nil {
		if delay := time.Until(retryTime); delay > 0 {
			return delay
		}
	}

	return 0
}
