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

package shared

import (
	"context"
	"fmt"
	"strings"

	"github.com/simplex-sh/simplex-go/internal/config"
	"github.com/simplex-sh/simplex-go/sdk"
)

// Target is a resolved session: everything needed to stream it, message
// it, or look it up.
type Target struct {
	SessionID  string
	WorkflowID string
	LogsURL    string
	MessageURL string
	VNCURL     string
}

// SessionAPI is the slice of the API client the resolver needs.
type SessionAPI interface {
	GetWorkflowActiveSession(ctx context.Context, workflowID string) (*sdk.ActiveSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*sdk.SessionStatus, error)
}

// ResolveTarget turns a command-line argument into a session target.
// Resolution order:
//  1. Empty argument: the current session, if one is recorded.
//  2. A URL: used directly as the stream address.
//  3. A workflow ID: its active session.
//  4. A session ID: looked up directly.
//  5. A saved session name or unambiguous prefix.
func ResolveTarget(ctx context.Context, api SessionAPI, arg string) (*Target, error) {
	if arg == "" {
		current, err := config.CurrentSession()
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("no current session, pass a workflow ID, session ID, or URL")
		}
		return targetFromSession(current), nil
	}

	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return &Target{LogsURL: arg, MessageURL: DeriveMessageURL(arg)}, nil
	}

	if active, err := api.GetWorkflowActiveSession(ctx, arg); err == nil && active.SessionID != "" {
		target := &Target{
			SessionID:  active.SessionID,
			WorkflowID: arg,
			LogsURL:    active.LogsURL,
			MessageURL: active.MessageURL,
			VNCURL:     active.VNCURL,
		}
		if target.MessageURL == "" {
			target.MessageURL = DeriveMessageURL(target.LogsURL)
		}
		return target, nil
	}

	if status, err := api.GetSessionStatus(ctx, arg); err == nil {
		return &Target{
			SessionID:  arg,
			LogsURL:    status.LogsURL,
			MessageURL: DeriveMessageURL(status.LogsURL),
		}, nil
	}

	saved, err := config.FindSession(arg)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return targetFromSession(saved), nil
	}

	return nil, fmt.Errorf("could not resolve %q to a workflow, session, or saved session", arg)
}

// DeriveMessageURL converts a stream URL into its sibling message
// endpoint. Session hosts expose .../stream and .../message side by side.
func DeriveMessageURL(logsURL string) string {
	if logsURL == "" {
		return ""
	}
	if strings.Contains(logsURL, "/message") {
		return logsURL
	}
	if idx := strings.LastIndex(logsURL, "/stream"); idx != -1 {
		return logsURL[:idx] + "/message" + logsURL[idx+len("/stream"):]
	}
	return strings.TrimRight(logsURL, "/") + "/message"
}

func targetFromSession(sess *config.Session) *Target {
	target := &Target{
		SessionID:  sess.SessionID,
		WorkflowID: sess.WorkflowID,
		LogsURL:    sess.LogsURL,
		MessageURL: sess.MessageURL,
		VNCURL:     sess.VNCURL,
	}
	if target.MessageURL == "" {
		target.MessageURL = DeriveMessageURL(target.LogsURL)
	}
	return target
}
