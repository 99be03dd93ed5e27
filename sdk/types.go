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

import "encoding/json"

// FileMetadata describes a file downloaded or created during a session.
type FileMetadata struct {
	Filename          string `json:"filename"`
	DownloadURL       string `json:"download_url"`
	FileSize          int64  `json:"file_size"`
	DownloadTimestamp string `json:"download_timestamp"`
}

// RunWorkflowResponse is the result of starting a workflow run.
type RunWorkflowResponse struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	VNCURL    string `json:"vnc_url"`
	LogsURL   string `json:"logs_url"`
}

// SessionStatus is the result of polling a session.
//
// InProgress is the terminal signal: once it is false the session has
// finished, and Success says how. Success is nil while the session is
// still running. ScraperOutputs and StructuredOutput are populated only
// for sessions that finished successfully.
type SessionStatus struct {
	InProgress       bool            `json:"in_progress"`
	Success          *bool           `json:"success"`
	Paused           bool            `json:"paused"`
	PausedKey        string          `json:"paused_key,omitempty"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	WorkflowMetadata json.RawMessage `json:"workflow_metadata,omitempty"`
	FileMetadata     []FileMetadata  `json:"file_metadata,omitempty"`
	ScraperOutputs   map[string]any  `json:"scraper_outputs,omitempty"`
	StructuredOutput json.RawMessage `json:"structured_output,omitempty"`
	FinalMessage     string          `json:"final_message,omitempty"`
	LogsURL          string          `json:"logs_url,omitempty"`
}

// Succeeded reports whether the session finished successfully.
func (s *SessionStatus) Succeeded() bool {
	return !s.InProgress && s.Success != nil && *s.Success
}

// PauseSessionResponse is the result of pausing a session.
type PauseSessionResponse struct {
	Succeeded bool   `json:"succeeded"`
	Action    string `json:"action,omitempty"`
	PauseKey  string `json:"pause_key,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ResumeSessionResponse is the result of resuming a paused session.
type ResumeSessionResponse struct {
	Succeeded bool   `json:"succeeded"`
	Action    string `json:"action,omitempty"`
	PauseType string `json:"pause_type,omitempty"`
	Key       string `json:"key,omitempty"`
	Error     string `json:"error,omitempty"`
}

// WorkflowSummary is a single workflow returned from a search.
type WorkflowSummary struct {
	WorkflowID   string         `json:"workflow_id"`
	WorkflowName string         `json:"workflow_name"`
	Variables    map[string]any `json:"variables,omitempty"`
	Metadata     string         `json:"metadata,omitempty"`
}

// SearchWorkflowsResponse is the result of a workflow search.
type SearchWorkflowsResponse struct {
	Succeeded bool              `json:"succeeded"`
	Workflows []WorkflowSummary `json:"workflows"`
	Count     int               `json:"count"`
}

// UpdateWorkflowMetadataResponse confirms a metadata update.
type UpdateWorkflowMetadataResponse struct {
	Succeeded  bool   `json:"succeeded"`
	Message    string `json:"message,omitempty"`
	WorkflowID string `json:"workflow_id"`
	Metadata   string `json:"metadata"`
}

// WorkflowField is one entry of a workflow's variable or structured-output
// schema.
type WorkflowField struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	EnumValues  []string `json:"enumValues,omitempty"`
}

// Workflow is a full workflow definition.
type Workflow struct {
	WorkflowID       string          `json:"workflow_id"`
	Name             string          `json:"name"`
	URL              string          `json:"url,omitempty"`
	Actions          json.RawMessage `json:"actions,omitempty"`
	Variables        []WorkflowField `json:"variables,omitempty"`
	StructuredOutput []WorkflowField `json:"structured_output,omitempty"`
	Metadata         string          `json:"metadata,omitempty"`
}

// workflowEnvelope handles both {"workflow": {...}} and bare workflow
// bodies, which coexist across service versions.
type workflowEnvelope struct {
	Workflow *Workflow `json:"workflow"`
}

// CreateWorkflowRequest describes a workflow to create.
type CreateWorkflowRequest struct {
	Name             string          `json:"name"`
	URL              string          `json:"url,omitempty"`
	Actions          json.RawMessage `json:"actions,omitempty"`
	Variables        []WorkflowField `json:"variables,omitempty"`
	StructuredOutput []WorkflowField `json:"structured_output,omitempty"`
	Metadata         string          `json:"metadata,omitempty"`
}

// EditorSession is the result of starting an editor session.
type EditorSession struct {
	Succeeded     bool   `json:"succeeded"`
	WorkflowID    string `json:"workflow_id"`
	SessionID     string `json:"session_id"`
	VNCURL        string `json:"vnc_url"`
	LogsURL       string `json:"logs_url"`
	MessageURL    string `json:"message_url,omitempty"`
	FilesystemURL string `json:"filesystem_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ActiveSession describes the most recent session of a workflow, with the
// fully-qualified URLs for its session-scoped endpoints. These URLs live
// on dynamically allocated hosts, not the API base address.
type ActiveSession struct {
	SessionID  string `json:"session_id"`
	Status     string `json:"status,omitempty"`
	LogsURL    string `json:"logs_url"`
	MessageURL string `json:"message_url,omitempty"`
	VNCURL     string `json:"vnc_url,omitempty"`
}

// EventPage is one page of polled session events.
type EventPage struct {
	Events    []json.RawMessage `json:"events"`
	NextIndex int               `json:"next_index"`
	Total     int               `json:"total"`
	HasMore   bool              `json:"has_more"`
}

// WebhookPayload is the body of a session-completion webhook, decoded
// after signature verification.
type WebhookPayload struct {
	Success          bool            `json:"success"`
	AgentResponse    string          `json:"agent_response,omitempty"`
	SessionID        string          `json:"session_id"`
	WorkflowID       string          `json:"workflow_id"`
	FileMetadata     []FileMetadata  `json:"file_metadata,omitempty"`
	ScraperOutputs   map[string]any  `json:"scraper_outputs,omitempty"`
	SessionMetadata  map[string]any  `json:"session_metadata,omitempty"`
	WorkflowMetadata map[string]any  `json:"workflow_metadata,omitempty"`
	WorkflowResult   json.RawMessage `json:"workflow_result,omitempty"`
	StructuredOutput json.RawMessage `json:"structured_output,omitempty"`
	ScreenshotURL    string          `json:"screenshot_url,omitempty"`
}
