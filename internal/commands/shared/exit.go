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

// Package shared holds helpers used across command packages: exit codes,
// output styling, the API client factory, and session target resolution.
package shared

import (
	"errors"
	"fmt"
	"os"

	"github.com/simplex-sh/simplex-go/sdk"
)

// Exit codes for the simplex CLI. Every failure exits 1; finer-grained
// codes are reserved for future use.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError is an error that carries an exit code.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewFailure creates an ExitError for a generic command failure.
func NewFailure(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: msg, Cause: cause}
}

// HandleExitError prints err to stderr and exits with its code. API errors
// get a short hint where one helps (authentication, rate limits).
func HandleExitError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, RenderError(err.Error()))

	var authErr *sdk.AuthenticationError
	if errors.As(err, &authErr) {
		fmt.Fprintln(os.Stderr, Muted.Render("hint: run `simplex login` to set your API key"))
	}
	var rlErr *sdk.RateLimitError
	if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
		fmt.Fprintln(os.Stderr, Muted.Render(fmt.Sprintf("hint: rate limited, retry after %ds", rlErr.RetryAfter)))
	}

	code := ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}
	os.Exit(code)
}
