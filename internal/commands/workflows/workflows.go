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

// Package workflows implements workflow inspection and editing.
package workflows

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
	"github.com/simplex-sh/simplex-go/sdk"
)

// NewWorkflowsCommand creates the workflows command group
func NewWorkflowsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflows",
		Aliases: []string{"workflow", "wf"},
		Short:   "Inspect and edit workflows",
	}

	cmd.AddCommand(
		newListCommand(),
		newVarsCommand(),
		newOutputsCommand(),
		newUpdateCommand(),
		newSetVarsCommand(),
		newSetOutputsCommand(),
	)

	return cmd
}

func newListCommand() *cobra.Command {
	var name, metadata string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search workflows by name or metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := shared.NewClient()
			if err != nil {
				return err
			}

			resp, err := client.SearchWorkflows(cmd.Context(), name, metadata)
			if err != nil {
				return err
			}

			if shared.GetJSON() {
				return shared.EmitJSON(resp)
			}

			if len(resp.Workflows) == 0 {
				cmd.Println(shared.Muted.Render("no workflows matched"))
				return nil
			}
			for _, wf := range resp.Workflows {
				line := shared.Bold.Render(wf.WorkflowName) + "  " + shared.Muted.Render(wf.WorkflowID)
				if wf.Metadata != "" {
					line += "  " + wf.Metadata
				}
				cmd.Println(line)
			}
			cmd.Println(shared.Muted.Render(fmt.Sprintf("%d workflow(s)", resp.Count)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Filter by workflow name")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Filter by metadata")

	return cmd
}

func newVarsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vars <workflow-id>",
		Short: "Show a workflow's variable schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSchema(cmd, args[0], "variables")
		},
	}
}

func newOutputsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outputs <workflow-id>",
		Short: "Show a workflow's structured-output schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSchema(cmd, args[0], "structured_output")
		},
	}
}

func showSchema(cmd *cobra.Command, workflowID, which string) error {
	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	wf, err := client.GetWorkflow(cmd.Context(), workflowID)
	if err != nil {
		return err
	}

	fields := wf.Variables
	if which == "structured_output" {
		fields = wf.StructuredOutput
	}

	if shared.GetJSON() {
		return shared.EmitJSON(fields)
	}

	if len(fields) == 0 {
		cmd.Println(shared.Muted.Render("no fields defined"))
		return nil
	}
	for _, field := range fields {
		cmd.Println(renderField(field))
	}
	return nil
}

func renderField(field sdk.WorkflowField) string {
	var b strings.Builder
	b.WriteString(shared.Bold.Render(field.Name))
	b.WriteString("  ")
	b.WriteString(field.Type)
	if len(field.EnumValues) > 0 {
		b.WriteString("(" + strings.Join(field.EnumValues, "|") + ")")
	}
	if field.Required {
		b.WriteString("  " + shared.StatusWarn.Render("required"))
	}
	if field.Description != "" {
		b.WriteString("  " + shared.Muted.Render(field.Description))
	}
	return b.String()
}

func newUpdateCommand() *cobra.Command {
	var name, startURL, metadata string

	cmd := &cobra.Command{
		Use:   "update <workflow-id>",
		Short: "Update a workflow's name, URL, or metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflowID := args[0]

			client, err := shared.NewClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fields := map[string]any{}
			if cmd.Flags().Changed("name") {
				fields["name"] = name
			}
			if cmd.Flags().Changed("url") {
				fields["url"] = startURL
			}
			if len(fields) == 0 && !cmd.Flags().Changed("metadata") {
				return fmt.Errorf("nothing to update, pass --name, --url, or --metadata")
			}

			if len(fields) > 0 {
				if _, err := client.UpdateWorkflow(ctx, workflowID, fields); err != nil {
					return err
				}
			}
			// Metadata has its own endpoint.
			if cmd.Flags().Changed("metadata") {
				if _, err := client.UpdateWorkflowMetadata(ctx, workflowID, metadata); err != nil {
					return err
				}
			}

			cmd.Println(shared.RenderOK("workflow updated"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New workflow name")
	cmd.Flags().StringVar(&startURL, "url", "", "New start URL")
	cmd.Flags().StringVar(&metadata, "metadata", "", "New metadata string")

	return cmd
}

func newSetVarsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-vars <workflow-id> <field>...",
		Short: "Replace a workflow's variable schema",
		Long: `Replace the variable schema. Each field is name[!]:type[:description],
with "!" marking required fields. Types: string, number, boolean,
enum(a|b|c). Example:

  simplex workflows set-vars wf-1 'city!:string:Destination' 'status:enum(open|closed)'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setSchema(cmd, args[0], "variables", args[1:])
		},
	}
}

func newSetOutputsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-outputs <workflow-id> <field>...",
		Short: "Replace a workflow's structured-output schema",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setSchema(cmd, args[0], "structured_output", args[1:])
		},
	}
}

func setSchema(cmd *cobra.Command, workflowID, which string, specs []string) error {
	fields, err := ParseFieldSpecs(specs)
	if err != nil {
		return err
	}

	client, err := shared.NewClient()
	if err != nil {
		return err
	}

	if _, err := client.UpdateWorkflow(cmd.Context(), workflowID, map[string]any{which: fields}); err != nil {
		return err
	}

	cmd.Println(shared.RenderOK(fmt.Sprintf("%s updated (%d fields)", strings.ReplaceAll(which, "_", " "), len(fields))))
	return nil
}
