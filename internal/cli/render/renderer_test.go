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

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeWireFrames(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, ev Event)
	}{
		{
			"kind under event key",
			`{"event": "RunContent", "content": "hello"}`,
			func(t *testing.T, ev Event) {
				if ev.Kind != EventRunContent || ev.Content != "hello" {
					t.Errorf("ev = %+v", ev)
				}
			},
		},
		{
			"type key as fallback",
			`{"type": "RunStarted"}`,
			func(t *testing.T, ev Event) {
				if ev.Kind != EventRunStarted {
					t.Errorf("Kind = %q", ev.Kind)
				}
			},
		},
		{
			"nested tool object",
			`{"event": "ToolCallStarted", "tool": {"tool_name": "navigate", "tool_args": {"url": "https://example.com"}}}`,
			func(t *testing.T, ev Event) {
				if ev.Tool.Name != "navigate" {
					t.Errorf("Tool.Name = %q", ev.Tool.Name)
				}
				if ev.Tool.Args["url"] != "https://example.com" {
					t.Errorf("Tool.Args = %v", ev.Tool.Args)
				}
			},
		},
		{
			"non-object tool tolerated",
			`{"event": "ToolCallStarted", "tool": "navigate"}`,
			func(t *testing.T, ev Event) {
				if ev.Kind != EventToolCallStarted || ev.Tool.Name != "" {
					t.Errorf("ev = %+v", ev)
				}
			},
		},
		{
			"questions under data",
			`{"event": "AskUserQuestion", "data": {"tool_use_id": "tu-1", "questions": [{"header": "Login", "question": "Which account?", "options": [{"label": "work"}, {"label": "personal"}], "multiSelect": false}]}}`,
			func(t *testing.T, ev Event) {
				if ev.ToolUseID != "tu-1" {
					t.Errorf("ToolUseID = %q", ev.ToolUseID)
				}
				if len(ev.Questions) != 1 || ev.Questions[0].Question != "Which account?" {
					t.Fatalf("Questions = %+v", ev.Questions)
				}
				if len(ev.Questions[0].Options) != 2 || ev.Questions[0].Options[1].Label != "personal" {
					t.Errorf("Options = %+v", ev.Questions[0].Options)
				}
			},
		},
		{
			"metrics and succeeded",
			`{"event": "RunCompleted", "succeeded": false, "metrics": {"duration_ms": 4500}}`,
			func(t *testing.T, ev Event) {
				if ev.Succeeded == nil || *ev.Succeeded {
					t.Error("Succeeded not decoded")
				}
				if ev.DurationMS != 4500 {
					t.Errorf("DurationMS = %v", ev.DurationMS)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			tt.check(t, ev)
		})
	}
}

func TestRenderContentStreamsInline(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventRunContent, Content: "Hello, "})
	r.Render(Event{Kind: EventRunContent, Content: "world"})

	if got := buf.String(); got != "Hello, world" {
		t.Errorf("output = %q, want content streamed without line breaks", got)
	}
}

func TestRenderSkipsInitSentinel(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventRunContent, Content: initSentinel})
	if buf.Len() != 0 {
		t.Errorf("handshake content rendered: %q", buf.String())
	}
}

func TestRenderStatusAfterContentBreaksLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventRunContent, Content: "working..."})
	r.Render(Event{Kind: EventToolCallStarted, Tool: Tool{Name: "extract_table"}})

	out := buf.String()
	if !strings.HasPrefix(out, "working...\n") {
		t.Errorf("status line did not start fresh: %q", out)
	}
	if !strings.Contains(out, "extract_table") {
		t.Errorf("tool name missing: %q", out)
	}
}

func TestRenderToolCompletionOnlyShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventToolCallCompleted, Tool: Tool{Name: "click", Content: "done"}})
	if buf.Len() != 0 {
		t.Errorf("successful completion produced output: %q", buf.String())
	}

	r.Render(Event{Kind: EventToolCallCompleted, Tool: Tool{CallErr: true, Content: "element not found"}})
	if !strings.Contains(buf.String(), "element not found") {
		t.Errorf("tool error missing: %q", buf.String())
	}
}

func TestRenderSkipsBookkeepingEvents(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventNewMessage})
	r.Render(Event{Kind: EventAgentRunning})

	if buf.Len() != 0 {
		t.Errorf("bookkeeping events produced output: %q", buf.String())
	}
}

func TestRenderUnknownKindStaysVisible(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: "FutureEventKind"})
	if !strings.Contains(buf.String(), "FutureEventKind") {
		t.Errorf("unknown event kind vanished: %q", buf.String())
	}

	buf.Reset()
	r.Render(Event{})
	if buf.Len() != 0 {
		t.Errorf("kindless frame produced output: %q", buf.String())
	}
}

func TestRenderRunError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventRunError, Error: "element not found"})
	if !strings.Contains(buf.String(), "element not found") {
		t.Errorf("error message missing: %q", buf.String())
	}

	// The error sometimes arrives under content instead.
	buf.Reset()
	r.Render(Event{Kind: EventRunError, Content: "budget exceeded"})
	if !strings.Contains(buf.String(), "budget exceeded") {
		t.Errorf("content fallback missing: %q", buf.String())
	}
}

func TestRenderCompletionOutcome(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	failed := false
	r.Render(Event{Kind: EventRunCompleted, Succeeded: &failed, DurationMS: 2500})
	out := buf.String()
	if !strings.Contains(out, "failed") {
		t.Errorf("failure outcome missing: %q", out)
	}
	if !strings.Contains(out, "2.5s") {
		t.Errorf("duration missing: %q", out)
	}
}

func TestRenderQuestionPanel(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(Event{Kind: EventAskUserQuestion, Questions: []Question{{
		Header:   "Login",
		Question: "Which account?",
		Options:  []QuestionOption{{Label: "work", Description: "company SSO"}, {Label: "personal"}},
	}}})

	out := buf.String()
	for _, want := range []string{"Login", "Which account?", "[1]", "work", "company SSO", "[2]", "personal"} {
		if !strings.Contains(out, want) {
			t.Errorf("question output missing %q: %q", want, out)
		}
	}
}

func TestRenderRawSkipsMalformed(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.RenderRaw(json.RawMessage(`{not json`))
	if buf.Len() != 0 {
		t.Errorf("malformed frame produced output: %q", buf.String())
	}

	r.RenderRaw(json.RawMessage(`{"event": "RunContent", "content": "ok"}`))
	if buf.String() != "ok" {
		t.Errorf("valid frame not rendered: %q", buf.String())
	}
}

func TestFormatToolDetail(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"nil args", nil, ""},
		{"file path preferred", map[string]any{"file_path": "/tmp/out.csv", "url": "https://example.com"}, "/tmp/out.csv"},
		{"url", map[string]any{"url": "https://example.com", "timeout": 5}, "https://example.com"},
		{"selector", map[string]any{"selector": "#submit"}, "#submit"},
		{"pattern", map[string]any{"pattern": "order-\\d+"}, "order-\\d+"},
		{"first substantial string", map[string]any{"a": 1, "zz": "fallback value"}, "fallback value"},
		{"short strings skipped", map[string]any{"a": "x", "b": 2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatToolDetail(tt.args); got != tt.want {
				t.Errorf("formatToolDetail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatToolDetailTruncates(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := formatToolDetail(map[string]any{"command": long})
	if len(got) > 123 {
		t.Errorf("command not truncated: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncation marker missing: %q", got)
	}
}
