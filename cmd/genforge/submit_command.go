package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"genforge/internal/status"
)

const waitPollInterval = 500 * time.Millisecond

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var backendFlag string
	var jsonFlag bool
	var waitFlag bool
	var metaFlags []string

	cmd := &cobra.Command{
		Use:   "submit <prompt>",
		Short: "Submit a prompt for project generation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				return errors.New("prompt must not be empty")
			}

			metadata, err := parseMetadata(metaFlags)
			if err != nil {
				return err
			}

			var submitted struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			}
			payload := map[string]any{"prompt": prompt, "backend": backendFlag}
			if len(metadata) > 0 {
				payload["metadata"] = metadata
			}
			if err := ctx.postJSON("/api/projects", payload, &submitted); err != nil {
				return err
			}

			if !waitFlag {
				if jsonFlag {
					return writeJSON(cmd, submitted)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted project %s (%s)\n", submitted.ID, submitted.Status)
				return nil
			}

			view, err := waitForTerminal(ctx, submitted.ID)
			if err != nil {
				return err
			}
			if jsonFlag {
				return writeJSON(cmd, view)
			}
			printProjectView(cmd, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendFlag, "backend", "", "Generation backend to use for this project")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON output")
	cmd.Flags().BoolVar(&waitFlag, "wait", false, "Wait for the project to reach a terminal status")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Attach metadata as key=value (repeatable)")
	return cmd
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q (expected key=value)", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func waitForTerminal(ctx *commandContext, id string) (status.ProjectView, error) {
	for {
		var view status.ProjectView
		if err := ctx.getJSON("/api/projects/"+id, &view); err != nil {
			return status.ProjectView{}, err
		}
		if view.Status == "completed" || view.Status == "failed" {
			return view, nil
		}
		time.Sleep(waitPollInterval)
	}
}
