package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type daemonStatusResponse struct {
	Running  bool   `json:"running"`
	API      string `json:"api"`
	DBPath   string `json:"db_path"`
	Projects struct {
		Total      int `json:"total"`
		Pending    int `json:"pending"`
		Generating int `json:"generating"`
		Completed  int `json:"completed"`
		Failed     int `json:"failed"`
	} `json:"projects"`
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show daemon and project store health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp daemonStatusResponse
			if err := ctx.getJSON("/api/status", &resp); err != nil {
				return err
			}
			if jsonFlag || !stdoutIsTerminal() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daemon:   %s\n", runningLabel(resp.Running))
			fmt.Fprintf(out, "API:      %s\n", resp.API)
			fmt.Fprintf(out, "Database: %s\n", resp.DBPath)
			fmt.Fprintln(out, renderTable(
				[]string{"Total", "Pending", "Generating", "Completed", "Failed"},
				[][]string{{
					fmt.Sprintf("%d", resp.Projects.Total),
					fmt.Sprintf("%d", resp.Projects.Pending),
					fmt.Sprintf("%d", resp.Projects.Generating),
					fmt.Sprintf("%d", resp.Projects.Completed),
					fmt.Sprintf("%d", resp.Projects.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON output")
	return cmd
}

func runningLabel(running bool) string {
	if running {
		return "running"
	}
	return "not running"
}
