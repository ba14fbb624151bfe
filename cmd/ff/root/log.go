package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/ui"
)

var logKinds = map[string]engine.ActivityKind{
	"note":       engine.ActivityNoteCreated,
	"habit":      engine.ActivityHabitTracked,
	"flashcards": engine.ActivityFlashcardsStudied,
	"pomodoro":   engine.ActivityPomodoroCompleted,
}

func newLogCmd() *cobra.Command {
	var count int
	var minutes int

	cmd := &cobra.Command{
		Use:   "log <note|habit|flashcards|pomodoro>",
		Short: "Record an activity outside the task list",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("activity is required (note|habit|flashcards|pomodoro)")
			}
			if _, ok := logKinds[args[0]]; !ok {
				return fmt.Errorf("unknown activity %q (note|habit|flashcards|pomodoro)", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := logKinds[args[0]]
			if kind == engine.ActivityPomodoroCompleted {
				if cmd.Flags().Changed("count") {
					return errors.New("--count does not apply to pomodoro; use --minutes")
				}
			} else if cmd.Flags().Changed("minutes") {
				return fmt.Errorf("--minutes only applies to pomodoro, not %s", args[0])
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			amount := count
			if kind == engine.ActivityPomodoroCompleted {
				amount = minutes
			}

			res, err := svc.RecordActivity(ctx, kind, amount)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconBolt+" Logged"), args[0], ui.Muted.Render(fmt.Sprintf("(+%d XP)", res.XPAwarded)))
			if res.LevelUp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
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

	cmd.Flags().IntVarP(&count, "count", "c", 1, "How many (notes created, cards studied, habit check-ins)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 25, "Session length in minutes (pomodoro only)")

	return cmd
}
