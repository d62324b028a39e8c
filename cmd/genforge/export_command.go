package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"genforge/internal/status"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a completed project's files to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view status.ProjectView
			if err := ctx.getJSON("/api/projects/"+args[0], &view); err != nil {
				return err
			}
			if view.Status != "completed" {
				return fmt.Errorf("project %s is %s; only completed projects can be exported", view.ID, view.Status)
			}
			if len(view.Artifacts) == 0 {
				return fmt.Errorf("project %s has no files to export", view.ID)
			}

			target := dirFlag
			if target == "" {
				target = view.ID
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create export directory: %w", err)
			}

			for _, artifact := range view.Artifacts {
				path, err := exportPath(target, artifact.Name)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return fmt.Errorf("create directory for %s: %w", artifact.Name, err)
				}
				if err := os.WriteFile(path, []byte(artifact.Content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", artifact.Name, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", len(view.Artifacts), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Target directory (defaults to the project id)")
	return cmd
}

func exportPath(base, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("refusing to export file with unsafe path %q", name)
	}
	return filepath.Join(base, cleaned), nil
}
