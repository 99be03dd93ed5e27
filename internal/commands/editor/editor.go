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

// Package editor implements the interactive workflow-building session.
package editor

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/cli/render"
	"github.com/simplex-sh/simplex-go/internal/commands/run"
	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/config"
)

// NewEditorCommand creates the editor command
func NewEditorCommand() *cobra.Command {
	var (
		name     string
		startURL string
		varsFlag string
		saveAs   string
		detach   bool
	)

	cmd := &cobra.Command{
		Use:   "editor [workflow-name]",
		Short: "Create a workflow in a live editing session",
		Long: `Create a new workflow and open a live browser session for building it.

The name comes from the first argument or --name. The session is recorded
as the current session so connect and send work without arguments;
--save-as also stores it under a name for later reconnects. By default the
command stays attached to the event stream; --detach returns immediately
after printing the session URLs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("workflow name required, pass it as an argument or --name")
			}
			return runEditor(cmd, name, startURL, varsFlag, saveAs, detach)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workflow name")
	cmd.Flags().StringVar(&startURL, "url", "", "Page the session opens on")
	cmd.Flags().StringVar(&varsFlag, "test-data", "", "Test data as a JSON object, or @path to a JSON file")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "Also save the session under this name")
	cmd.Flags().BoolVar(&detach, "detach", false, "Print session info and return without streaming")

	return cmd
}

func runEditor(cmd *cobra.Command, name, startURL, varsFlag, saveAs string, detach bool) error {
	testData, err := run.ParseVariables(varsFlag, nil)
	if err != nil {
		return err
	}

	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := client.StartEditorSession(ctx, name, startURL, testData)
	if err != nil {
		return err
	}

	messageURL := sess.MessageURL
	if messageURL == "" {
		messageURL = shared.DeriveMessageURL(sess.LogsURL)
	}
	record := config.Session{
		Name:       saveAs,
		SessionID:  sess.SessionID,
		WorkflowID: sess.WorkflowID,
		LogsURL:    sess.LogsURL,
		MessageURL: messageURL,
		VNCURL:     sess.VNCURL,
	}
	if err := config.SaveCurrentSession(record); err != nil {
		cmd.PrintErrln(shared.RenderWarn("could not record session: " + err.Error()))
	}
	if saveAs != "" {
		if err := config.SaveSession(record); err != nil {
			cmd.PrintErrln(shared.RenderWarn("could not save session: " + err.Error()))
		}
	}

	if shared.GetJSON() {
		return shared.EmitJSON(sess)
	}

	cmd.Println(shared.RenderOK("editor session started"))
	cmd.Printf("%s %s\n", shared.RenderLabel("workflow:"), sess.WorkflowID)
	cmd.Printf("%s %s\n", shared.RenderLabel("session:"), sess.SessionID)
	if sess.VNCURL != "" {
		cmd.Printf("%s %s\n", shared.RenderLabel("view:"), sess.VNCURL)
	}

	if detach || sess.LogsURL == "" {
		return nil
	}

	stream, err := client.StreamSession(ctx, sess.LogsURL)
	if err != nil {
		return err
	}
	defer stream.Close()

	renderer := render.NewRenderer(cmd.OutOrStdout())
	for {
		raw, ok := stream.Next()
		if !ok {
			return nil
		}
		renderer.RenderRaw(raw)
	}
}
