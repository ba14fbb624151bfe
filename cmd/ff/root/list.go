package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := svc.TaskRepo().ListAll(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTask, "Tasks"))
			shown := 0
			for _, t := range tasks {
				if !all && t.Status != "pending" {
					continue
				}
				shown++

				line := fmt.Sprintf("#%d %s [%s]", t.ID, t.Title, ui.StatusText(t.Status))
				if t.DueDate != nil {
					line += ui.Muted.Render(" due " + t.DueDate.Format("2006-01-02"))
				}
				if p := engine.PatternFromTask(&t); p != nil {
					line += " " + ui.Key.Render(ui.IconLoop+" "+engine.FormatRecurringPattern(p))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if shown == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks; add one with `ff add`)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include done and expired tasks")

	return cmd
}
