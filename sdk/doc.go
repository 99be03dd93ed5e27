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

// Package sdk is the Go client for the Simplex workflow-automation API.
//
// The Client provides a flat method set, one per remote operation: run a
// workflow, poll session status, pause/resume, search workflows, download
// session artifacts, stream live session events, and send messages to a
// running browser agent. All state lives on the service; the client holds
// nothing but connection configuration.
//
// Basic usage:
//
//	client, err := sdk.New("your-api-key")
//	if err != nil {
//	    return err
//	}
//
//	run, err := client.RunWorkflow(ctx, "workflow-id", sdk.RunWorkflowOptions{
//	    Variables: map[string]any{"email": "user@example.com"},
//	})
//	if err != nil {
//	    return err
//	}
//
//	for {
//	    status, err := client.GetSessionStatus(ctx, run.SessionID)
//	    if err != nil {
//	        return err
//	    }
//	    if !status.InProgress {
//	        break
//	    }
//	    time.Sleep(time.Second)
//	}
//
// Errors are typed: use errors.As with *ValidationError,
// *AuthenticationError, *RateLimitError, *NetworkError, or *WorkflowError
// to branch on the failure class, or with *APIError to match any of them. Transient failures (connection errors,
// 429, 5xx) are retried internally with linear backoff before an error
// surfaces.
//
// A Client is immutable after construction and safe for concurrent use.
// Individual operations block the calling goroutine; cancel the context to
// abort a call or a stream.
package sdk
