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

// Package auth implements login, whoami, and logout.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/internal/config"
	"github.com/simplex-sh/simplex-go/sdk"
)

// authProbeQuery is a search that matches nothing; a 2xx or an empty
// result proves the key works, a 401/403 proves it does not.
const authProbeQuery = "__simplex_cli_auth_check__"

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store your Simplex API key",
		Long: `Validate an API key against the service and store it.

The key is kept in the system keyring when one is available, otherwise in
a file only you can read under the config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, apiKey)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted for when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, apiKey string) error {
	if apiKey == "" {
		var err error
		apiKey, err = promptForKey(cmd)
		if err != nil {
			return err
		}
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("no API key provided")
	}

	client, err := sdk.New(apiKey, baseURLOptions()...)
	if err != nil {
		return err
	}

	// Any authenticated response validates the key, including an empty
	// search result.
	ctx := cmd.Context()
	if _, err := client.SearchWorkflows(ctx, authProbeQuery, ""); err != nil {
		var authErr *sdk.AuthenticationError
		if errors.As(err, &authErr) {
			return fmt.Errorf("API key rejected: %s", authErr.Message)
		}
		return fmt.Errorf("could not verify API key: %w", err)
	}

	if err := config.SaveAPIKey(apiKey); err != nil {
		return fmt.Errorf("storing API key: %w", err)
	}

	cmd.Println(shared.RenderOK("logged in, key " + config.MaskKey(apiKey)))
	return nil
}

func promptForKey(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal for prompting, pass --api-key or set SIMPLEX_API_KEY")
	}

	fmt.Fprint(cmd.OutOrStdout(), "API key: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return string(key), nil
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored API key and verify it",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, args []string) error {
	key, err := config.ResolveAPIKey()
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("not logged in, run `simplex login` or set SIMPLEX_API_KEY")
	}

	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	valid := true
	start := time.Now()
	if _, err := client.SearchWorkflows(cmd.Context(), authProbeQuery, ""); err != nil {
		var authErr *sdk.AuthenticationError
		if errors.As(err, &authErr) {
			valid = false
		} else {
			return fmt.Errorf("could not reach the service: %w", err)
		}
	}

	if shared.GetJSON() {
		return shared.EmitJSON(map[string]any{
			"key":   config.MaskKey(key),
			"valid": valid,
		})
	}

	cmd.Printf("%s %s\n", shared.RenderLabel("key:"), config.MaskKey(key))
	if valid {
		cmd.Println(shared.RenderOK(fmt.Sprintf("key valid (checked in %dms)", time.Since(start).Milliseconds())))
	} else {
		cmd.Println(shared.RenderError("key rejected by the service"))
	}
	return nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteAPIKey(); err != nil {
				return fmt.Errorf("removing credentials: %w", err)
			}
			cmd.Println(shared.RenderOK("logged out"))
			return nil
		},
	}
}

// baseURLOptions returns the base-URL option when one is configured.
func baseURLOptions() []sdk.Option {
	base, err := config.ResolveBaseURL()
	if err != nil || base == "" {
		return nil
	}
	return []sdk.Option{sdk.WithBaseURL(base)}
}
