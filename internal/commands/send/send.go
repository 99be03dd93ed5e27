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

// Package send implements messaging a live session.
package send

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
)

// NewSendCommand creates the send command
func NewSendCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "send [target] <message...>",
		Short: "Send a message to a live session",
		Long: `Send an instruction to a session's agent.

With two or more arguments the first is the target: a workflow ID,
session ID, saved session name, or message URL. A single (quoted)
argument is the message, sent to the current session. --to overrides the
target either way.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := to
			message := args
			if target == "" && len(args) >= 2 {
				target = args[0]
				message = args[1:]
			}
			return runSend(cmd, target, strings.Join(message, " "))
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target session (default: first argument, then current session)")

	return cmd
}

func runSend(cmd *cobra.Command, to, message string) error {
	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	target, err := shared.ResolveTarget(ctx, client, to)
	if err != nil {
		return err
	}
	if target.MessageURL == "" {
		return shared.NewFailure("session has no message address", nil)
	}

	if err := client.SendMessage(ctx, target.MessageURL, message); err != nil {
		return err
	}

	cmd.Println(shared.RenderOK("message sent"))
	return nil
}
