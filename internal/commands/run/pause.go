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

package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/config"
)

// NewPauseCommand creates the pause command
func NewPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause [session-id]",
		Short: "Pause a running session",
		Long:  `Pause a session. Without an argument the current session is paused.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := sessionArg(args)
			if err != nil {
				return err
			}

			client, err := shared.NewClient()
			if err != nil {
				return err
			}

			resp, err := client.Pause(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			if shared.GetJSON() {
				return shared.EmitJSON(resp)
			}
			msg := "session paused"
			if resp.PauseKey != "" {
				msg += " (" + resp.PauseKey + ")"
			}
			cmd.Println(shared.RenderOK(msg))
			return nil
		},
	}
}

// NewResumeCommand creates the resume command
func NewResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Resume a paused session",
		Long:  `Resume a paused session. Without an argument the current session is resumed.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := sessionArg(args)
			if err != nil {
				return err
			}

			client, err := shared.NewClient()
			if err != nil {
				return err
			}

			resp, err := client.Resume(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			if shared.GetJSON() {
				return shared.EmitJSON(resp)
			}
			cmd.Println(shared.RenderOK("session resumed"))
			return nil
		},
	}
}

// sessionArg returns the explicit session ID or falls back to the current
// session.
func sessionArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	current, err := config.CurrentSession()
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", fmt.Errorf("no current session, pass a session ID")
	}
	return current.SessionID, nil
}
