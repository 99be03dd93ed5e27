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

// Package connect implements the live session view.
package connect

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/cli/render"
	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/log"
)

// NewConnectCommand creates the connect command
func NewConnectCommand() *cobra.Command {
	var noInput bool

	cmd := &cobra.Command{
		Use:   "connect [workflow-id | session-id | name | url]",
		Short: "Attach to a session's live event stream",
		Long: `Stream a session's events to the terminal until it finishes or the
connection drops.

Without an argument the current session is used. A workflow ID attaches to
that workflow's active session; a saved session name or unambiguous prefix
also works. When the session asks a question, connect prompts for the
answer and sends it back, unless --no-input is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			return runConnect(cmd, arg, noInput)
		},
	}

	cmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt, print questions instead")

	return cmd
}

func runConnect(cmd *cobra.Command, arg string, noInput bool) error {
	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	target, err := shared.ResolveTarget(ctx, client, arg)
	if err != nil {
		return err
	}
	if target.LogsURL == "" {
		return shared.NewFailure("session has no stream address", nil)
	}

	stream, err := client.StreamSession(ctx, target.LogsURL)
	if err != nil {
		return err
	}
	defer stream.Close()
	log.WithSession(slog.Default(), target.SessionID).Debug("attached to event stream")

	// --json streams the raw frames for piping, one JSON object per line.
	if shared.GetJSON() {
		out := cmd.OutOrStdout()
		for {
			raw, ok := stream.Next()
			if !ok {
				return nil
			}
			fmt.Fprintln(out, string(raw))
		}
	}

	renderer := render.NewRenderer(cmd.OutOrStdout())
	for {
		raw, ok := stream.Next()
		if !ok {
			cmd.Println(shared.Muted.Render("disconnected"))
			return nil
		}

		ev, err := render.Decode(raw)
		if err != nil {
			continue
		}
		renderer.Render(ev)

		if ev.Kind == render.EventAskUserQuestion && !noInput && target.MessageURL != "" {
			if err := answerQuestion(ctx, client, target.MessageURL, ev); err != nil {
				cmd.PrintErrln(shared.RenderWarn("could not send answer: " + err.Error()))
			}
		}
	}
}
