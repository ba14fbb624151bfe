package root

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/ui"
)

func newRepeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repeat <phrase>",
		Short: "Preview how a recurrence phrase is understood",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("phrase is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := engine.ParseRecurringText(args[0])
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+fmt.Sprintf(" %q is not a recognized schedule", args[0])))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Schedule", engine.FormatRecurringPattern(p)))
			if p.Kind == engine.RecurCustom {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("This schedule does not advance by date; it ends after the completion count."))
				return nil
			}

			next := time.Now()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Key.Render("Next occurrences:"))
			for i := 0; i < 3; i++ {
				next = engine.NextDueDate(p, next)
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", next.Format("Mon, 02 Jan 2006"))
			}
			return nil
		},
	}

	return cmd
}
