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
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/simplex-sh/simplex-go/pkg/httpclient"
)

// Client is the Simplex API client. Construct with New; the zero value is
// not usable. All fields are set at construction and never mutated, so a
// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration

	// httpClient handles request/response calls with retry.
	httpClient *http.Client
	// streamClient has no timeouts and no retry; streams may idle for
	// long periods and are never safe to replay transparently.
	streamClient *http.Client
}

// New creates a Simplex client for the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &ValidationError{APIError: APIError{Message: "api key is required"}}
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		timeout:    30 * time.Second,
		maxRetries: 3,
		retryDelay: time.Second,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.httpClient == nil {
		cfg := httpclient.DefaultConfig()
		cfg.Timeout = c.timeout
		cfg.MaxRetries = c.maxRetries
		cfg.RetryDelay = c.retryDelay
		cfg.APIKey = c.apiKey

		client, err := httpclient.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("building http client: %w", err)
		}
		c.httpClient = client
	}

	streamCfg := httpclient.DefaultConfig()
	streamCfg.NoTimeout = true
	streamCfg.MaxRetries = 0
	streamCfg.APIKey = c.apiKey

	streamClient, err := httpclient.New(streamCfg)
	if err != nil {
		return nil, fmt.Errorf("building stream client: %w", err)
	}
	c.streamClient = streamClient

	return c, nil
}

// RunWorkflowOptions are the optional parameters for RunWorkflow.
type RunWorkflowOptions struct {
	// Variables are passed to the workflow; composite values are
	// JSON-serialized on the wire.
	Variables map[string]any
	// Metadata is an opaque string attached to the run.
	Metadata string
	// WebhookURL receives a status callback when the session completes.
	WebhookURL string
}

// RunWorkflow starts a workflow run and returns the new session.
// Any failure is reported as a *WorkflowError tagged with the workflow ID;
// the underlying typed error stays reachable through errors.As.
func (c *Client) RunWorkflow(ctx context.Context, workflowID string, opts RunWorkflowOptions) (*RunWorkflowResponse, error) {
	fields := map[string]any{"workflow_id": workflowID}
	if opts.Variables != nil {
		fields["variables"] = opts.Variables
	}
	if opts.Metadata != "" {
		fields["metadata"] = opts.Metadata
	}
	if opts.WebhookURL != "" {
		fields["webhook_url"] = opts.WebhookURL
	}

	var out RunWorkflowResponse
	if err := c.postForm(ctx, "/run_workflow", fields, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to run workflow", workflowID, "")
	}
	return &out, nil
}

// GetSessionStatus polls a session. Callers waiting for completion should
// poll until InProgress is false.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var out SessionStatus
	if err := c.getJSON(ctx, "/session/"+url.PathEscape(sessionID)+"/status", nil, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to get session status", "", sessionID)
	}
	return &out, nil
}

// Pause pauses a running session.
func (c *Client) Pause(ctx context.Context, sessionID string) (*PauseSessionResponse, error) {
	var out PauseSessionResponse
	err := c.postForm(ctx, "/pause", map[string]any{"session_id": sessionID}, &out)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to pause session", "", sessionID)
	}
	if !out.Succeeded {
		message := out.Error
		if message == "" {
			message = "failed to pause session"
		}
		return nil, &WorkflowError{APIError: APIError{Message: message}, SessionID: sessionID}
	}
	return &out, nil
}

// Resume resumes a paused session.
func (c *Client) Resume(ctx context.Context, sessionID string) (*ResumeSessionResponse, error) {
	var out ResumeSessionResponse
	err := c.postForm(ctx, "/resume_session", map[string]any{"session_id": sessionID}, &out)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to resume session", "", sessionID)
	}
	if !out.Succeeded {
		message := out.Error
		if message == "" {
			message = "failed to resume session"
		}
		return nil, &WorkflowError{APIError: APIError{Message: message}, SessionID: sessionID}
	}
	return &out, nil
}

// SearchWorkflows searches workflows by name and/or metadata. At least one
// filter is required; an empty search fails locally with a
// *ValidationError before any request is made.
func (c *Client) SearchWorkflows(ctx context.Context, workflowName, metadata string) (*SearchWorkflowsResponse, error) {
	if workflowName == "" && metadata == "" {
		return nil, &ValidationError{APIError: APIError{
			Message: "at least one of workflow name or metadata must be provided",
		}}
	}

	params := url.Values{}
	if workflowName != "" {
		params.Set("workflow_name", workflowName)
	}
	if metadata != "" {
		params.Set("metadata", metadata)
	}

	var out SearchWorkflowsResponse
	if err := c.getJSON(ctx, "/search_workflows", params, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to search workflows", "", "")
	}
	return &out, nil
}

// UpdateWorkflowMetadata replaces a workflow's metadata string.
func (c *Client) UpdateWorkflowMetadata(ctx context.Context, workflowID, metadata string) (*UpdateWorkflowMetadataResponse, error) {
	var out UpdateWorkflowMetadataResponse
	err := c.postForm(ctx, "/update_workflow_metadata", map[string]any{
		"workflow_id": workflowID,
		"metadata":    metadata,
	}, &out)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to update workflow metadata", workflowID, "")
	}
	if !out.Succeeded {
		return nil, &WorkflowError{
			APIError:   APIError{Message: "failed to update workflow metadata"},
			WorkflowID: workflowID,
		}
	}
	return &out, nil
}

// GetWorkflow fetches a full workflow definition.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	var envelope workflowEnvelope
	var workflow Workflow

	raw := json.RawMessage{}
	if err := c.getJSON(ctx, "/workflow/"+url.PathEscape(workflowID), nil, &raw); err != nil {
		return nil, wrapWorkflowError(err, "failed to get workflow", workflowID, "")
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Workflow != nil {
		return envelope.Workflow, nil
	}
	if err := json.Unmarshal(raw, &workflow); err != nil {
		return nil, wrapWorkflowError(err, "failed to get workflow", workflowID, "")
	}
	return &workflow, nil
}

// CreateWorkflow creates a new workflow definition.
func (c *Client) CreateWorkflow(ctx context.Context, req CreateWorkflowRequest) (*Workflow, error) {
	var out Workflow
	if err := c.sendJSON(ctx, http.MethodPost, "/workflow", req, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to create workflow", "", "")
	}
	return &out, nil
}

// UpdateWorkflow patches workflow fields (name, url, actions, variables,
// structured_output, metadata). Only the given fields change.
func (c *Client) UpdateWorkflow(ctx context.Context, workflowID string, fields map[string]any) (*Workflow, error) {
	var out Workflow
	err := c.sendJSON(ctx, http.MethodPatch, "/workflow/"+url.PathEscape(workflowID), fields, &out)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to update workflow", workflowID, "")
	}
	return &out, nil
}

// StartEditorSession creates a workflow and starts a live browser session
// for it in one call.
func (c *Client) StartEditorSession(ctx context.Context, name, startURL string, testData map[string]any) (*EditorSession, error) {
	payload := map[string]any{"name": name, "url": startURL}
	if testData != nil {
		payload["test_data"] = testData
	}

	var out EditorSession
	if err := c.sendJSON(ctx, http.MethodPost, "/start_editor_session", payload, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to start editor session", "", "")
	}
	if !out.Succeeded {
		message := out.Error
		if message == "" {
			message = "failed to start editor session"
		}
		return nil, &WorkflowError{APIError: APIError{Message: message}}
	}
	return &out, nil
}

// DownloadSessionFiles downloads files produced during a session. With an
// empty filename, all files arrive as a single zip archive. The service
// reports failures for this endpoint as a JSON body in place of the file,
// which is detected and surfaced as a *WorkflowError.
func (c *Client) DownloadSessionFiles(ctx context.Context, sessionID, filename string) ([]byte, error) {
	params := url.Values{"session_id": []string{sessionID}}
	if filename != "" {
		params.Set("filename", filename)
	}

	data, err := c.download(ctx, "/download_session_files", params)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to download session files", "", sessionID)
	}

	// A JSON error body can masquerade as the download payload.
	var probe struct {
		Succeeded *bool  `json:"succeeded"`
		Error     string `json:"error"`
	}
	if json.Unmarshal(data, &probe) == nil && probe.Succeeded != nil && !*probe.Succeeded {
		message := probe.Error
		if message == "" {
			message = "failed to download session files"
		}
		return nil, &WorkflowError{APIError: APIError{Message: message}, SessionID: sessionID}
	}

	return data, nil
}

// RetrieveSessionReplay downloads the MP4 replay of a completed session.
func (c *Client) RetrieveSessionReplay(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := c.download(ctx, "/retrieve_session_replay/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to retrieve session replay", "", sessionID)
	}
	return data, nil
}

// RetrieveSessionLogs fetches the logs of a completed session. A nil
// result with a nil error means the session is still running and logs are
// not yet available; that is not a failure.
func (c *Client) RetrieveSessionLogs(ctx context.Context, sessionID string) (json.RawMessage, error) {
	data, err := c.download(ctx, "/retrieve_session_logs/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to retrieve session logs", "", sessionID)
	}

	var out struct {
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to parse session logs", "", sessionID)
	}
	if isJSONNull(out.Logs) {
		return nil, nil
	}
	return out.Logs, nil
}

// GetWorkflowActiveSession returns the most recent session for a workflow
// along with its session-scoped URLs.
func (c *Client) GetWorkflowActiveSession(ctx context.Context, workflowID string) (*ActiveSession, error) {
	var out ActiveSession
	err := c.getJSON(ctx, "/workflow/"+url.PathEscape(workflowID)+"/active_session", nil, &out)
	if err != nil {
		return nil, wrapWorkflowError(err, "failed to get active session", workflowID, "")
	}
	return &out, nil
}

// CloseSession closes a workflow session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	err := c.postForm(ctx, "/close_workflow_session", map[string]any{"session_id": sessionID}, nil)
	if err != nil {
		return wrapWorkflowError(err, "failed to close session", "", sessionID)
	}
	return nil
}

// SendMessage posts a message to a live session. The message URL comes
// from a prior response (EditorSession or ActiveSession) and is used
// exactly as given; it does not live on the API base address.
func (c *Client) SendMessage(ctx context.Context, messageURL, message string) error {
	return c.sendJSONURL(ctx, http.MethodPost, messageURL, map[string]any{"message": message}, nil)
}

// PollEvents fetches a page of events from a session's logs URL.
func (c *Client) PollEvents(ctx context.Context, logsURL string, since, limit int) (*EventPage, error) {
	params := url.Values{
		"since": []string{strconv.Itoa(since)},
		"limit": []string{strconv.Itoa(limit)},
	}

	var out EventPage
	if err := c.getJSONURL(ctx, logsURL, params, &out); err != nil {
		return nil, wrapWorkflowError(err, "failed to poll events", "", "")
	}
	return &out, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
