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

// Package run implements run, pause, and resume.
package run

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/config"
	"github.com/simplex-sh/simplex-go/internal/log"
	"github.com/simplex-sh/simplex-go/sdk"
)

// watchInterval is the poll cadence for --watch.
const watchInterval = 2 * time.Second

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		varsFlag   string
		varPairs   []string
		metadata   string
		webhookURL string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "run <workflow-id>",
		Short: "Start a workflow run",
		Long: `Start a remote session for a workflow.

Variables can be passed as a JSON object (--vars), a JSON file
(--vars @file.json), or individual pairs (--var key=value). With --watch
the command polls the session until it finishes and exits non-zero on
failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := ParseVariables(varsFlag, varPairs)
			if err != nil {
				return err
			}
			return runRun(cmd, args[0], sdk.RunWorkflowOptions{
				Variables:  vars,
				Metadata:   metadata,
				WebhookURL: webhookURL,
			}, watch)
		},
	}

	cmd.Flags().StringVar(&varsFlag, "vars", "", "Workflow variables as a JSON object, or @path to a JSON file")
	cmd.Flags().StringArrayVar(&varPairs, "var", nil, "Single variable as key=value (repeatable)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Opaque metadata string attached to the run")
	cmd.Flags().StringVar(&webhookURL, "webhook", "", "URL to receive a completion webhook")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll the session until it finishes")

	return cmd
}

func runRun(cmd *cobra.Command, workflowID string, opts sdk.RunWorkflowOptions, watch bool) error {
	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	log.WithWorkflow(slog.Default(), workflowID).Debug("starting workflow run")
	resp, err := client.RunWorkflow(cmd.Context(), workflowID, opts)
	if err != nil {
		return err
	}

	// Remember the session so connect/send/status work without arguments.
	saveErr := config.SaveCurrentSession(config.Session{
		SessionID:  resp.SessionID,
		WorkflowID: workflowID,
		LogsURL:    resp.LogsURL,
		MessageURL: shared.DeriveMessageURL(resp.LogsURL),
		VNCURL:     resp.VNCURL,
	})
	if saveErr != nil {
		cmd.PrintErrln(shared.RenderWarn(fmt.Sprintf("could not record session: %v", saveErr)))
	}

	if shared.GetJSON() && !watch {
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK("session started"))
	cmd.Printf("%s %s\n", shared.RenderLabel("session:"), resp.SessionID)
	if resp.VNCURL != "" {
		cmd.Printf("%s %s\n", shared.RenderLabel("view:"), resp.VNCURL)
	}

	if !watch {
		return nil
	}
	return watchSession(cmd.Context(), cmd, client, resp.SessionID)
}

// watchSession polls until the session leaves the in-progress state.
func watchSession(ctx context.Context, cmd *cobra.Command, client *sdk.Client, sessionID string) error {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	logger := log.WithSession(slog.Default(), sessionID)
	start := time.Now()
	wasPaused := false
	for {
		status, err := client.GetSessionStatus(ctx, sessionID)
		if err != nil {
			logger.Debug("status poll failed", log.Error(err))
			return err
		}

		if !status.InProgress {
			logger.Debug("session finished", log.DurationKey, time.Since(start).Milliseconds())
			return printOutcome(cmd, status)
		}
		if status.Paused && !wasPaused {
			cmd.Println(shared.RenderWarn("session paused, resume with `simplex resume`"))
		}
		wasPaused = status.Paused

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printOutcome(cmd *cobra.Command, status *sdk.SessionStatus) error {
	if shared.GetJSON() {
		return shared.EmitJSON(status)
	}

	if !status.Succeeded() {
		msg := "session failed"
		if status.FinalMessage != "" {
			msg += ": " + status.FinalMessage
		}
		return shared.NewFailure(msg, nil)
	}

	cmd.Println(shared.RenderOK("session completed"))
	if status.FinalMessage != "" {
		cmd.Println(status.FinalMessage)
	}
	if len(status.ScraperOutputs) > 0 {
		data, err := json.MarshalIndent(status.ScraperOutputs, "", "  ")
		if err == nil {
			cmd.Println(shared.Header.Render("outputs"))
			cmd.Println(string(data))
		}
	}
	if len(status.StructuredOutput) > 0 && string(status.StructuredOutput) != "null" {
		cmd.Println(shared.Header.Render("structured output"))
		cmd.Println(string(status.StructuredOutput))
	}
	return nil
}
