package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"flowfocus/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("id must be an integer")
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

			id, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", ui.Good.Render(ui.IconDone+" Done"), res.TaskID, ui.Muted.Render(fmt.Sprintf("(+%d XP)", res.XPAwarded)))
			if res.LevelUp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
			}
			switch {
			case res.NextDue != nil:
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Next due", res.NextDue.Format("2006-01-02")))
			case res.Ended:
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Schedule finished; this task no longer recurs."))
			}
			for _, u := range res.Unlocked {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
					ui.Gold.Render(ui.IconTrophy+" Unlocked:"), u.Name,
					ui.RarityText(string(u.Rarity)),
					ui.Muted.Render(fmt.Sprintf("(+%d pts)", u.Points)))
			}
			return nil
		},
	}

	return cmd
}
