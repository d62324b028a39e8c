package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genforge/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Show the status of a generated project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view status.ProjectView
			if err := ctx.getJSON("/api/projects/"+args[0], &view); err != nil {
				return err
			}
			if jsonFlag || !stdoutIsTerminal() {
				return writeJSON(cmd, view)
			}
			printProjectView(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON output")
	return cmd
}

func printProjectView(cmd *cobra.Command, view status.ProjectView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project %s\n", view.ID)
	fmt.Fprintf(out, "  Status:  %s\n", view.Status)
	if view.Backend != "" {
		fmt.Fprintf(out, "  Backend: %s\n", view.Backend)
	}
	if view.Summary != "" {
		fmt.Fprintf(out, "  Summary: %s\n", view.Summary)
	}
	fmt.Fprintf(out, "  Prompt:  %s\n", truncatePrompt(view.Prompt, 100))

	if len(view.Artifacts) == 0 {
		return
	}
	rows := make([][]string, 0, len(view.Artifacts))
	for _, artifact := range view.Artifacts {
		rows = append(rows, []string{artifact.Name, artifact.Language, fmt.Sprintf("%d", artifact.Size)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Language", "Bytes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
}

func truncatePrompt(prompt string, limit int) string {
	runes := []rune(prompt)
	if len(runes) <= limit {
		return prompt
	}
	return string(runes[:limit]) + "..."
}
