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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// APIError is the base type for all Simplex API errors. The concrete error
// types below embed it, so errors.As(err, &apiErr) with *APIError matches
// any of them through their Unwrap chains.
type APIError struct {
	// Message is the human-readable error message, extracted from the
	// response body when possible.
	Message string

	// StatusCode is the HTTP status code, 0 when no response was obtained.
	StatusCode int

	// Data is the decoded response body, when it was valid JSON.
	Data any
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// NetworkError indicates that no HTTP response was obtained: connection
// failures, timeouts, and DNS errors, after retries were exhausted.
type NetworkError struct {
	APIError
	// Err is the underlying transport error.
	Err error
}

func (e *NetworkError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return &e.APIError
}

// ValidationError indicates the request was rejected as invalid, either
// locally before any network call or by the server with HTTP 400.
// Data carries the parsed response body unchanged.
type ValidationError struct {
	APIError
}

func (e *ValidationError) Unwrap() error { return &e.APIError }

// AuthenticationError indicates an invalid API key or insufficient
// permissions (HTTP 401 or 403).
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Unwrap() error { return &e.APIError }

// RateLimitError indicates the rate limit was exceeded (HTTP 429).
type RateLimitError struct {
	APIError

	// RetryAfter is the server's retry hint in seconds, 0 when the
	// Retry-After header was absent or not a number.
	RetryAfter int
}

func (e *RateLimitError) Unwrap() error { return &e.APIError }

// WorkflowError indicates a workflow or session operation failed: any
// server error not covered by a more specific type, or a response with
// succeeded=false.
type WorkflowError struct {
	APIError

	// WorkflowID is the workflow involved, when known.
	WorkflowID string
	// SessionID is the session involved, when known.
	SessionID string

	// Err is the underlying error when this wraps a lower-level failure.
	Err error
}

func (e *WorkflowError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return &e.APIError
}

// errorBody is the shape error responses usually take.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorFromResponse translates a non-2xx response into the typed error for
// its status code. The body is decoded as JSON when possible; the message
// prefers the body's "message" then "error" keys, falling back to raw text.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var data any
	message := ""
	if json.Unmarshal(body, &data) == nil {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			if eb.Message != "" {
				message = eb.Message
			} else if eb.Error != "" {
				message = eb.Error
			}
		}
		if message == "" {
			switch v := data.(type) {
			case map[string]any:
				// Structured body without a message key.
			case string:
				message = v
			default:
				message = string(body)
			}
		}
	} else {
		data = nil
		message = string(body)
	}
	if message == "" {
		message = "an error occurred"
	}

	base := APIError{Message: message, StatusCode: resp.StatusCode, Data: data}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{APIError: base}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &AuthenticationError{APIError: base}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 0
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				retryAfter = n
			}
		}
		return &RateLimitError{APIError: base, RetryAfter: retryAfter}
	default:
		return &APIError{Message: message, StatusCode: resp.StatusCode, Data: data}
	}
}

// networkError wraps a transport failure, passing context errors through
// untouched so cancellation is observable as context.Canceled.
func networkError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &NetworkError{
		APIError: APIError{Message: fmt.Sprintf("network error: %v", err)},
		Err:      err,
	}
}

// wrapWorkflowError tags err as a workflow failure unless it already is
// one. The original typed error stays reachable through Unwrap.
func wrapWorkflowError(err error, message, workflowID, sessionID string) error {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return err
	}

	status := 0
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}

	return &WorkflowError{
		APIError:   APIError{Message: fmt.Sprintf("%s: %v", message, err), StatusCode: status},
		WorkflowID: workflowID,
		SessionID:  sessionID,
		Err:        err,
	}
}
