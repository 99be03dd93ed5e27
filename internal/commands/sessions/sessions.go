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

// Package sessions implements session inspection: status, logs, events,
// file and replay downloads, and the saved-session registry.
package sessions

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/config"
	"github.com/simplex-sh/simplex-go/sdk"
)

// watchInterval is the poll cadence for --watch.
const watchInterval = 2 * time.Second

// NewSessionsCommand creates the sessions command group
func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Inspect sessions and manage saved ones",
	}

	cmd.AddCommand(
		newStatusCommand(),
		newLogsCommand(),
		newEventsCommand(),
		newDownloadCommand(),
		newReplayCommand(),
		newListCommand(),
		newRemoveCommand(),
		newCloseCommand(),
	)

	return cmd
}

// resolveSessionID turns an optional argument into a concrete session ID
// using the shared target resolution.
func resolveSessionID(cmd *cobra.Command, client *sdk.Client, args []string) (string, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	target, err := shared.ResolveTarget(cmd.Context(), client, arg)
	if err != nil {
		return "", err
	}
	if target.SessionID == "" {
		return "", fmt.Errorf("%q resolved to a stream URL, pass a session ID", arg)
	}
	return target.SessionID, nil
}

func newStatusCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status [session]",
		Short: "Show a session's status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			sessionID, err := resolveSessionID(cmd, client, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			for {
				status, err := client.GetSessionStatus(ctx, sessionID)
				if err != nil {
					return err
				}

				if !watch || !status.InProgress {
					if shared.GetJSON() {
						return shared.EmitJSON(status)
					}
					printStatus(cmd, sessionID, status)
					return nil
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(watchInterval):
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll until the session finishes")

	return cmd
}

func printStatus(cmd *cobra.Command, sessionID string, status *sdk.SessionStatus) {
	cmd.Printf("%s %s\n", shared.RenderLabel("session:"), sessionID)

	switch {
	case status.Paused:
		cmd.Println(shared.RenderWarn("paused"))
	case status.InProgress:
		cmd.Println(shared.StatusInfo.Render(shared.SymbolInfo) + " running")
	case status.Succeeded():
		cmd.Println(shared.RenderOK("completed"))
	default:
		cmd.Println(shared.RenderError("failed"))
	}

	if status.FinalMessage != "" {
		cmd.Println(status.FinalMessage)
	}
	for _, file := range status.FileMetadata {
		cmd.Printf("%s %s (%d bytes)\n", shared.RenderLabel("file:"), file.Filename, file.FileSize)
	}
}

func newLogsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logs [session]",
		Short: "Fetch a completed session's logs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			sessionID, err := resolveSessionID(cmd, client, args)
			if err != nil {
				return err
			}

			logs, err := client.RetrieveSessionLogs(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			if logs == nil {
				cmd.Println(shared.Muted.Render("session still running, logs not available yet"))
				return nil
			}
			cmd.Println(string(logs))
			return nil
		},
	}
}

func newEventsCommand() *cobra.Command {
	var since, limit int

	cmd := &cobra.Command{
		Use:   "events [session]",
		Short: "Fetch a page of session events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			target, err := shared.ResolveTarget(cmd.Context(), client, arg)
			if err != nil {
				return err
			}
			if target.LogsURL == "" {
				return shared.NewFailure("session has no event address", nil)
			}

			page, err := client.PollEvents(cmd.Context(), target.LogsURL, since, limit)
			if err != nil {
				return err
			}

			if shared.GetJSON() {
				return shared.EmitJSON(page)
			}
			for _, ev := range page.Events {
				cmd.Println(string(ev))
			}
			if page.HasMore {
				cmd.Println(shared.Muted.Render(fmt.Sprintf("more events, continue with --since %d", page.NextIndex)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&since, "since", 0, "Event index to start from")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum events to fetch")

	return cmd
}

func newDownloadCommand() *cobra.Command {
	var filename, out string

	cmd := &cobra.Command{
		Use:   "download [session]",
		Short: "Download files produced by a session",
		Long: `Download session files. Without --file all files arrive as a single zip
archive. The output path defaults to the downloaded filename.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			sessionID, err := resolveSessionID(cmd, client, args)
			if err != nil {
				return err
			}

			data, err := client.DownloadSessionFiles(cmd.Context(), sessionID, filename)
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = filename
			}
			if dest == "" {
				dest = sessionID + "-files.zip"
			}
			if err := os.WriteFile(dest, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			cmd.Println(shared.RenderOK(fmt.Sprintf("wrote %s (%d bytes)", dest, len(data))))
			return nil
		},
	}

	cmd.Flags().StringVar(&filename, "file", "", "Single file to download (default: all, as a zip)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path")

	return cmd
}

func newReplayCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "replay [session]",
		Short: "Download a session's video replay",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			sessionID, err := resolveSessionID(cmd, client, args)
			if err != nil {
				return err
			}

			data, err := client.RetrieveSessionReplay(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = sessionID + ".mp4"
			}
			if err := os.WriteFile(dest, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			cmd.Println(shared.RenderOK(fmt.Sprintf("wrote %s (%d bytes)", dest, len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (default: <session-id>.mp4)")

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := config.ListSessions()
			if err != nil {
				return err
			}

			if shared.GetJSON() {
				return shared.EmitJSON(saved)
			}

			if len(saved) == 0 {
				cmd.Println(shared.Muted.Render("no saved sessions"))
				return nil
			}
			for _, sess := range saved {
				cmd.Printf("%s  %s  %s\n",
					shared.Bold.Render(sess.Name),
					sess.SessionID,
					shared.Muted.Render(sess.SavedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Forget a saved session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.RemoveSession(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no saved session named %q", args[0])
			}
			cmd.Println(shared.RenderOK("removed " + args[0]))
			return nil
		},
	}
}

func newCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close [session]",
		Short: "Close a live session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			sessionID, err := resolveSessionID(cmd, client, args)
			if err != nil {
				return err
			}

			if err := client.CloseSession(cmd.Context(), sessionID); err != nil {
				return err
			}
			cmd.Println(shared.RenderOK("session closed"))
			return nil
		},
	}
}
