package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genforge/internal/status"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool
	var limitFlag int
	var offsetFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var listed struct {
				Projects []status.ProjectView `json:"projects"`
				Limit    int                  `json:"limit"`
				Offset   int                  `json:"offset"`
			}
			path := fmt.Sprintf("/api/projects?limit=%d&offset=%d", limitFlag, offsetFlag)
			if err := ctx.getJSON(path, &listed); err != nil {
				return err
			}
			if jsonFlag || !stdoutIsTerminal() {
				return writeJSON(cmd, listed)
			}

			if len(listed.Projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet")
				return nil
			}
			rows := make([][]string, 0, len(listed.Projects))
			for _, view := range listed.Projects {
				rows = append(rows, []string{
					view.ID,
					view.Status,
					view.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					truncatePrompt(view.Prompt, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Status", "Created", "Prompt"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON output")
	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of projects to show")
	cmd.Flags().IntVar(&offsetFlag, "offset", 0, "Number of projects to skip")
	return cmd
}
