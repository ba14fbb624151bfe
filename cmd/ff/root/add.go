package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/ui"
)

func newAddCmd() *cobra.Command {
	var repeat string
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task, optionally with a recurrence phrase",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			in := engine.CreateTaskInput{Title: args[0]}

			if repeat != "" {
				p := engine.ParseRecurringText(repeat)
				if p == nil {
					// Unrecognized phrase means "no recurrence", not a failure.
					fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+fmt.Sprintf(" %q is not a recognized schedule; the task will not recur", repeat)))
				}
				in.Repeat = p
			}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid --due date (want YYYY-MM-DD): %w", err)
				}
				in.DueDate = &d
			}

			res, err := svc.CreateTask(ctx, in)
			if err != nil {
				return err
			}

			line := fmt.Sprintf("%s #%d %s", ui.Good.Render(ui.IconTask+" Added"), res.TaskID, args[0])
			fmt.Fprintln(cmd.OutOrStdout(), line)
			if in.Repeat != nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Repeats", engine.FormatRecurringPattern(in.Repeat)))
			}
			if res.DueDate != nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Due", res.DueDate.Format("2006-01-02")))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repeat, "repeat", "r", "", `Recurrence phrase (e.g. "every monday", "daily", "after 3 completions")`)
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")

	return cmd
}
