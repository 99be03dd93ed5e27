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

// Package cli assembles the simplex command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/auth"
	"github.com/simplex-sh/simplex-go/internal/commands/connect"
	"github.com/simplex-sh/simplex-go/internal/commands/editor"
	"github.com/simplex-sh/simplex-go/internal/commands/run"
	"github.com/simplex-sh/simplex-go/internal/commands/send"
	"github.com/simplex-sh/simplex-go/internal/commands/sessions"
	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/commands/version"
	"github.com/simplex-sh/simplex-go/internal/commands/workflows"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for the simplex CLI
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplex",
		Short: "Simplex - remote workflow automation",
		Long: `Simplex runs browser workflow automations as remote sessions.

Run 'simplex login' to store your API key, then 'simplex run <workflow-id>'
to start a workflow and 'simplex connect' to watch it live.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	json := shared.RegisterFlagPointers()
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")

	cmd.AddCommand(
		auth.NewLoginCommand(),
		auth.NewWhoamiCommand(),
		auth.NewLogoutCommand(),
		run.NewRunCommand(),
		run.NewPauseCommand(),
		run.NewResumeCommand(),
		connect.NewConnectCommand(),
		editor.NewEditorCommand(),
		send.NewSendCommand(),
		workflows.NewWorkflowsCommand(),
		sessions.NewSessionsCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
