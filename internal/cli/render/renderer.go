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

// Package render turns session event frames into terminal output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
)

// Event kinds emitted by session streams. The kind arrives under the
// frame's "event" key, with "type" as a fallback.
const (
	EventRunStarted        = "RunStarted"
	EventRunContent        = "RunContent"
	EventToolCallStarted   = "ToolCallStarted"
	EventToolCallCompleted = "ToolCallCompleted"
	EventFlowPaused        = "FlowPaused"
	EventFlowResumed       = "FlowResumed"
	EventRunCompleted      = "RunCompleted"
	EventRunFinished       = "RunFinished"
	EventRunError          = "RunError"
	EventAskUserQuestion   = "AskUserQuestion"
	EventNewMessage        = "NewMessage"
	EventAgentRunning      = "AgentRunning"
)

// initSentinel is the handshake content the agent emits when it boots.
// It is not user output.
const initSentinel = "SIMPLEX_AGENT_INITIALIZED"

// Tool is the nested tool object on ToolCallStarted/ToolCallCompleted
// frames.
type Tool struct {
	Name    string         `json:"tool_name"`
	Args    map[string]any `json:"tool_args"`
	CallErr bool           `json:"tool_call_error"`
	Content string         `json:"content"`
}

// QuestionOption is one selectable answer on an AskUserQuestion frame.
type QuestionOption struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Question is one entry of an AskUserQuestion frame's question list.
type Question struct {
	Header      string           `json:"header"`
	Question    string           `json:"question"`
	Options     []QuestionOption `json:"options"`
	MultiSelect bool             `json:"multiSelect"`
}

// Event is one decoded frame from a session stream.
type Event struct {
	Kind      string
	Content   string
	Tool      Tool
	Error     string
	PauseType string
	Prompt    string
	Succeeded *bool
	// DurationMS is the run duration reported under metrics.
	DurationMS float64
	// ToolUseID and Questions come from the frame's data object, falling
	// back to the top level when the server inlines them.
	ToolUseID string
	Questions []Question
}

// eventFrame mirrors the wire shape. Tool and Data stay raw because the
// server sometimes sends them as non-objects.
type eventFrame struct {
	Event     string          `json:"event"`
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Tool      json.RawMessage `json:"tool"`
	Error     string          `json:"error"`
	PauseType string          `json:"pause_type"`
	Prompt    string          `json:"prompt"`
	Succeeded *bool           `json:"succeeded"`
	Metrics   struct {
		DurationMS float64 `json:"duration_ms"`
	} `json:"metrics"`
	Data      json.RawMessage `json:"data"`
	ToolUseID string          `json:"tool_use_id"`
	Questions []Question      `json:"questions"`
}

// Decode parses a raw frame into an Event.
func Decode(raw json.RawMessage) (Event, error) {
	var frame eventFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}

	ev := Event{
		Kind:       frame.Event,
		Content:    frame.Content,
		Error:      frame.Error,
		PauseType:  frame.PauseType,
		Prompt:     frame.Prompt,
		Succeeded:  frame.Succeeded,
		DurationMS: frame.Metrics.DurationMS,
		ToolUseID:  frame.ToolUseID,
		Questions:  frame.Questions,
	}
	if ev.Kind == "" {
		ev.Kind = frame.Type
	}
	if len(frame.Tool) > 0 {
		// Best effort: a non-object tool renders as "unknown".
		_ = json.Unmarshal(frame.Tool, &ev.Tool)
	}
	if len(frame.Data) > 0 {
		var data struct {
			ToolUseID string     `json:"tool_use_id"`
			Questions []Question `json:"questions"`
		}
		if json.Unmarshal(frame.Data, &data) == nil {
			if data.ToolUseID != "" {
				ev.ToolUseID = data.ToolUseID
			}
			if len(data.Questions) > 0 {
				ev.Questions = data.Questions
			}
		}
	}
	return ev, nil
}

// Renderer writes session events to a terminal. Content frames stream
// inline; everything else gets its own line. Not safe for concurrent use.
type Renderer struct {
	w io.Writer

	// lastEvent tracks the previous frame's kind so a status line after
	// streamed content starts on a fresh line.
	lastEvent string
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// RenderRaw decodes and renders one frame. Malformed frames are skipped.
func (r *Renderer) RenderRaw(raw json.RawMessage) {
	ev, err := Decode(raw)
	if err != nil {
		return
	}
	r.Render(ev)
}

// Render writes one event.
func (r *Renderer) Render(ev Event) {
	switch ev.Kind {
	case EventRunStarted:
		r.line(shared.Muted.Render("agent started"))

	case EventRunContent:
		if ev.Content != "" && ev.Content != initSentinel {
			fmt.Fprint(r.w, ev.Content)
		}

	case EventToolCallStarted:
		name := ev.Tool.Name
		if name == "" {
			name = "unknown"
		}
		detail := formatToolDetail(ev.Tool.Args)
		if detail != "" {
			r.line(shared.StatusInfo.Render(shared.SymbolTool) + " " + shared.Bold.Render(name) + " " + shared.Muted.Render(detail))
		} else {
			r.line(shared.StatusInfo.Render(shared.SymbolTool) + " " + shared.Bold.Render(name))
		}

	case EventToolCallCompleted:
		// Only failures are worth a line.
		if ev.Tool.CallErr && ev.Tool.Content != "" {
			r.line(shared.StatusError.Render("  error: " + truncate(ev.Tool.Content, 200)))
		}

	case EventFlowPaused:
		msg := "paused"
		if ev.PauseType != "" {
			msg += " (" + ev.PauseType + ")"
		}
		r.line(shared.RenderWarn(msg))
		if ev.Prompt != "" {
			fmt.Fprintln(r.w, ev.Prompt)
		}
		fmt.Fprintln(r.w, shared.Muted.Render(`respond with simplex send "message"`))

	case EventFlowResumed:
		r.line(shared.RenderOK("resumed"))

	case EventRunCompleted, EventRunFinished:
		msg := shared.RenderOK("completed")
		if ev.Succeeded != nil && !*ev.Succeeded {
			msg = shared.RenderError("failed")
		}
		if ev.DurationMS > 0 {
			msg += shared.Muted.Render(fmt.Sprintf(" in %.1fs", ev.DurationMS/1000))
		}
		r.line(msg)

	case EventRunError:
		msg := ev.Error
		if msg == "" {
			msg = ev.Content
		}
		if msg == "" {
			msg = "session failed"
		}
		r.line(shared.RenderError(msg))

	case EventAskUserQuestion:
		r.renderQuestions(ev.Questions)

	case EventNewMessage, EventAgentRunning:
		// Bookkeeping frames, nothing to show.
		return

	default:
		// Unknown kinds stay visible so new server events are noticed.
		if ev.Kind != "" {
			r.line(shared.Muted.Render("[" + ev.Kind + "]"))
		}
	}

	r.lastEvent = ev.Kind
}

func (r *Renderer) renderQuestions(questions []Question) {
	for _, q := range questions {
		header := q.Header
		if header == "" {
			header = "Question"
		}
		r.line(shared.StatusWarn.Render(shared.SymbolWarn) + " " + shared.Bold.Render(header))
		if q.Question != "" {
			fmt.Fprintln(r.w, q.Question)
		}
		for i, opt := range q.Options {
			line := "  " + shared.StatusInfo.Render("["+strconv.Itoa(i+1)+"]") + " " + opt.Label
			if opt.Description != "" {
				line += shared.Muted.Render(" - " + opt.Description)
			}
			fmt.Fprintln(r.w, line)
		}
		if q.MultiSelect {
			fmt.Fprintln(r.w, shared.Muted.Render("select multiple (comma-separated) or type a response"))
		} else if len(q.Options) > 0 {
			fmt.Fprintln(r.w, shared.Muted.Render("enter a choice or type a response"))
		}
	}
}

// line writes a full status line, breaking out of any in-progress content
// stream first.
func (r *Renderer) line(s string) {
	if r.lastEvent == EventRunContent {
		fmt.Fprintln(r.w)
	}
	fmt.Fprintln(r.w, s)
}

// formatToolDetail picks the most useful argument to show next to a tool
// name: paths, commands, and selectors first, then any string with
// substance.
func formatToolDetail(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	if v, ok := stringArg(args, "file_path"); ok {
		return v
	}
	if v, ok := stringArg(args, "command"); ok {
		return truncate(v, 120)
	}
	if v, ok := stringArg(args, "selector"); ok {
		return v
	}
	if v, ok := stringArg(args, "description"); ok {
		return truncate(v, 100)
	}
	if v, ok := stringArg(args, "url"); ok {
		return truncate(v, 120)
	}
	if v, ok := stringArg(args, "text"); ok {
		return truncate(v, 80)
	}
	if v, ok := stringArg(args, "pattern"); ok {
		return v
	}

	// Fall back to the first string argument with any substance. Sorted
	// keys keep the pick stable across map iterations.
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := args[k].(string); ok && len(s) > 2 {
			return truncate(s, 100)
		}
	}
	return ""
}

func stringArg(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok && s != ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
