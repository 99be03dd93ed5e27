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
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New("test-key", WithBaseURL(srv.URL), WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, srv
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestNewTrimsBaseURLSlash(t *testing.T) {
	client, err := New("key", WithBaseURL("https://example.com/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.baseURL != "https://example.com" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
}

func TestRunWorkflow(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/run_workflow" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("X-API-Key = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("workflow_id"); got != "wf-1" {
			t.Errorf("workflow_id = %q", got)
		}
		// Composite variables arrive JSON-serialized.
		var vars map[string]any
		if err := json.Unmarshal([]byte(r.PostForm.Get("variables")), &vars); err != nil {
			t.Errorf("variables not JSON: %v", err)
		} else if vars["city"] != "Lisbon" {
			t.Errorf("variables = %v", vars)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"succeeded":  true,
			"session_id": "sess-1",
			"logs_url":   "https://host-7.simplex.sh/sess-1/stream",
		})
	}))

	resp, err := client.RunWorkflow(context.Background(), "wf-1", RunWorkflowOptions{
		Variables: map[string]any{"city": "Lisbon"},
	})
	if err != nil {
		t.Fatalf("RunWorkflow: %v", err)
	}
	if resp.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", resp.SessionID)
	}
	if resp.LogsURL == "" {
		t.Error("LogsURL empty")
	}
}

func TestRunWorkflowWrapsTypedErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid api key"})
	}))

	_, err := client.RunWorkflow(context.Background(), "wf-1", RunWorkflowOptions{})
	if err == nil {
		t.Fatal("expected error")
	}

	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) {
		t.Fatalf("expected *WorkflowError, got %T", err)
	}
	if wfErr.WorkflowID != "wf-1" {
		t.Errorf("WorkflowID = %q", wfErr.WorkflowID)
	}

	// The authentication failure stays reachable through the wrap.
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatal("expected *AuthenticationError in chain")
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", authErr.StatusCode)
	}
}

func TestGetSessionStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"in_progress":   false,
			"success":       true,
			"final_message": "done",
		})
	}))

	status, err := client.GetSessionStatus(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetSessionStatus: %v", err)
	}
	if !status.Succeeded() {
		t.Error("Succeeded() = false")
	}
	if status.FinalMessage != "done" {
		t.Errorf("FinalMessage = %q", status.FinalMessage)
	}
}

func TestSessionStatusSucceededWhileRunning(t *testing.T) {
	status := &SessionStatus{InProgress: true}
	if status.Succeeded() {
		t.Error("running session reported as succeeded")
	}
	if status.Success != nil {
		t.Error("Success should be nil while running")
	}
}

func TestPauseFailureBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"succeeded": false,
			"error":     "session already finished",
		})
	}))

	_, err := client.Pause(context.Background(), "sess-1")
	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) {
		t.Fatalf("expected *WorkflowError, got %v", err)
	}
	if wfErr.Message != "session already finished" {
		t.Errorf("Message = %q", wfErr.Message)
	}
	if wfErr.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", wfErr.SessionID)
	}
}

func TestResume(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resume_session" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"succeeded": true, "action": "resumed"})
	}))

	resp, err := client.Resume(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resp.Action != "resumed" {
		t.Errorf("Action = %q", resp.Action)
	}
}

func TestSearchWorkflowsRequiresFilter(t *testing.T) {
	requested := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))

	_, err := client.SearchWorkflows(context.Background(), "", "")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if requested {
		t.Error("empty search should fail before any request")
	}
}

func TestSearchWorkflows(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("workflow_name"); got != "invoices" {
			t.Errorf("workflow_name = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"succeeded": true,
			"count":     1,
			"workflows": []map[string]any{
				{"workflow_id": "wf-1", "workflow_name": "invoices"},
			},
		})
	}))

	resp, err := client.SearchWorkflows(context.Background(), "invoices", "")
	if err != nil {
		t.Fatalf("SearchWorkflows: %v", err)
	}
	if len(resp.Workflows) != 1 || resp.Workflows[0].WorkflowID != "wf-1" {
		t.Errorf("Workflows = %+v", resp.Workflows)
	}
}

func TestGetWorkflowEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"enveloped", `{"workflow": {"workflow_id": "wf-1", "name": "invoices"}}`},
		{"bare", `{"workflow_id": "wf-1", "name": "invoices"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			wf, err := client.GetWorkflow(context.Background(), "wf-1")
			if err != nil {
				t.Fatalf("GetWorkflow: %v", err)
			}
			if wf.WorkflowID != "wf-1" || wf.Name != "invoices" {
				t.Errorf("workflow = %+v", wf)
			}
		})
	}
}

func TestUpdateWorkflow(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/workflow/wf-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if fields["name"] != "renamed" {
			t.Errorf("fields = %v", fields)
		}
		json.NewEncoder(w).Encode(map[string]any{"workflow_id": "wf-1", "name": "renamed"})
	}))

	wf, err := client.UpdateWorkflow(context.Background(), "wf-1", map[string]any{"name": "renamed"})
	if err != nil {
		t.Fatalf("UpdateWorkflow: %v", err)
	}
	if wf.Name != "renamed" {
		t.Errorf("Name = %q", wf.Name)
	}
}

func TestStartEditorSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/start_editor_session" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["name"] != "scraper" || payload["url"] != "https://example.com" {
			t.Errorf("payload = %v", payload)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"succeeded":   true,
			"workflow_id": "wf-2",
			"session_id":  "sess-2",
			"vnc_url":     "https://host-3.simplex.sh/vnc",
			"logs_url":    "https://host-3.simplex.sh/sess-2/stream",
		})
	}))

	sess, err := client.StartEditorSession(context.Background(), "scraper", "https://example.com", nil)
	if err != nil {
		t.Fatalf("StartEditorSession: %v", err)
	}
	if sess.WorkflowID != "wf-2" || sess.SessionID != "sess-2" {
		t.Errorf("session = %+v", sess)
	}
}

func TestDownloadSessionFiles(t *testing.T) {
	payload := []byte("PK\x03\x04zipbytes")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "sess-1" {
			t.Errorf("session_id = %q", got)
		}
		w.Write(payload)
	}))

	data, err := client.DownloadSessionFiles(context.Background(), "sess-1", "")
	if err != nil {
		t.Fatalf("DownloadSessionFiles: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("payload mismatch")
	}
}

func TestDownloadSessionFilesJSONFailureBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with a JSON error body in place of the file.
		json.NewEncoder(w).Encode(map[string]any{
			"succeeded": false,
			"error":     "no files for session",
		})
	}))

	_, err := client.DownloadSessionFiles(context.Background(), "sess-1", "report.csv")
	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) {
		t.Fatalf("expected *WorkflowError, got %v", err)
	}
	if wfErr.Message != "no files for session" {
		t.Errorf("Message = %q", wfErr.Message)
	}
}

func TestRetrieveSessionLogs(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/retrieve_session_logs/sess-1" {
				t.Errorf("path = %q", r.URL.Path)
			}
			w.Write([]byte(`{"logs": [{"event": "RunStarted"}]}`))
		}))

		logs, err := client.RetrieveSessionLogs(context.Background(), "sess-1")
		if err != nil {
			t.Fatalf("RetrieveSessionLogs: %v", err)
		}
		if logs == nil {
			t.Fatal("logs nil for completed session")
		}
	})

	t.Run("still running", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"logs": null}`))
		}))

		logs, err := client.RetrieveSessionLogs(context.Background(), "sess-1")
		if err != nil {
			t.Fatalf("RetrieveSessionLogs: %v", err)
		}
		if logs != nil {
			t.Errorf("logs = %s, want nil while running", logs)
		}
	})
}

func TestGetWorkflowActiveSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workflow/wf-1/active_session" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"session_id":  "sess-9",
			"logs_url":    "https://host-2.simplex.sh/sess-9/stream",
			"message_url": "https://host-2.simplex.sh/sess-9/message",
		})
	}))

	sess, err := client.GetWorkflowActiveSession(context.Background(), "wf-1")
	if err != nil {
		t.Fatalf("GetWorkflowActiveSession: %v", err)
	}
	if sess.SessionID != "sess-9" || sess.MessageURL == "" {
		t.Errorf("session = %+v", sess)
	}
}

func TestSendMessagePostsToExactURL(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// The client base URL points elsewhere; the message URL must win.
	client, err := New("test-key", WithBaseURL("https://api.invalid"), WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.SendMessage(context.Background(), srv.URL+"/sess-1/message", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/sess-1/message" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["message"] != "hello" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestPollEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since"); got != "5" {
			t.Errorf("since = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"events":     []map[string]any{{"event": "RunContent"}},
			"next_index": 6,
			"has_more":   false,
		})
	}))
	defer srv.Close()

	client, err := New("test-key", WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	page, err := client.PollEvents(context.Background(), srv.URL+"/sess-1/logs", 5, 100)
	if err != nil {
		t.Fatalf("PollEvents: %v", err)
	}
	if len(page.Events) != 1 || page.NextIndex != 6 {
		t.Errorf("page = %+v", page)
	}
}

func TestCloseSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/close_workflow_session" {
			t.Errorf("path = %q", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostForm.Get("session_id"); got != "sess-1" {
			t.Errorf("session_id = %q", got)
		}
		w.Write([]byte(`{"succeeded": true}`))
	}))

	if err := client.CloseSession(context.Background(), "sess-1"); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
}
