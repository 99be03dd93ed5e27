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

package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/simplex-sh/simplex-go/internal/cli/render"
	"github.com/simplex-sh/simplex-go/sdk"
)

// askOne is survey.AskOne, indirected for tests.
var askOne = survey.AskOne

// answerQuestion prompts for a reply to each question on an
// AskUserQuestion event and sends the answers back through the session's
// message endpoint, keyed by question index.
func answerQuestion(ctx context.Context, client *sdk.Client, messageURL string, ev render.Event) error {
	questions := ev.Questions
	if len(questions) == 0 {
		// Some servers inline a single question without a list.
		questions = []render.Question{{Question: "The session is waiting for input"}}
	}

	answers := map[string]string{}
	for i, q := range questions {
		prompt := q.Question
		if prompt == "" {
			prompt = q.Header
		}
		if prompt == "" {
			prompt = "Answer"
		}

		var raw string
		if err := askOne(&survey.Input{Message: prompt}, &raw); err != nil {
			return fmt.Errorf("reading answer: %w", err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		answers[strconv.Itoa(i)] = resolveAnswer(raw, q)
	}

	payload, err := json.Marshal(map[string]any{
		"type":        "ask_user_answer",
		"tool_use_id": ev.ToolUseID,
		"answers":     answers,
	})
	if err != nil {
		return err
	}

	return client.SendMessage(ctx, messageURL, string(payload))
}

// resolveAnswer maps numeric choices onto their option labels. Anything
// else passes through as free text; multi-select answers are
// comma-separated.
func resolveAnswer(raw string, q render.Question) string {
	if !q.MultiSelect {
		return optionLabel(raw, q.Options)
	}

	parts := strings.Split(raw, ",")
	picked := make([]string, 0, len(parts))
	for _, part := range parts {
		picked = append(picked, optionLabel(strings.TrimSpace(part), q.Options))
	}
	return strings.Join(picked, ", ")
}

func optionLabel(raw string, options []render.QuestionOption) string {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(options) {
		return raw
	}
	if label := options[n-1].Label; label != "" {
		return label
	}
	return raw
}
