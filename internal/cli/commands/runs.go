package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent publish runs",
		Long:  `List the most recent publish runs recorded in the state database, newest first.`,
		Example: `  # Show the last 20 runs
  pixi-animate runs

  # Show the last 5 runs as JSON
  pixi-animate runs --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := cmdCtx.Publisher.Runs(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(runs)
			}
			if len(runs) == 0 {
				r.Muted("No runs recorded yet")
				return nil
			}
			r.Table([]string{"Started", "Status", "Document", "Duration", "Error"}, runRows(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func runRows(runs []*core.Run) [][]any {
	rows := make([][]any, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		rows = append(rows, []any{
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			run.Document,
			duration,
			run.Error,
		})
	}
	return rows
}
