package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/ui"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show level, points, counters, and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := svc.StatsRepo().GetOrCreateMain(ctx)
			if err != nil {
				return err
			}
			earned, err := svc.AchievementRepo().ListEarnedKeys(ctx, s.Key)
			if err != nil {
				return err
			}

			level := engine.LevelForXP(s.XP)
			progress := engine.ProgressToNextLevel(s.XP)

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Your Progress"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", level))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("XP", fmt.Sprintf("%d %s %d/%d to next", s.XP, xpBar(progress, engine.XPPerLevel, 20), progress, engine.XPPerLevel)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Total points", s.TotalPoints))
			fmt.Fprintln(cmd.OutOrStdout(), "")

			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("📊 Activity"))
			fmt.Fprintf(cmd.OutOrStdout(), "- %s tasks completed: %d\n", ui.IconTask, s.TodosCompleted)
			fmt.Fprintf(cmd.OutOrStdout(), "- %s notes created: %d\n", ui.IconNote, s.NotesCreated)
			fmt.Fprintf(cmd.OutOrStdout(), "- %s habit check-ins: %d\n", ui.IconLoop, s.HabitsTracked)
			fmt.Fprintf(cmd.OutOrStdout(), "- %s flashcards studied: %d\n", ui.IconCards, s.FlashcardsStudied)
			fmt.Fprintf(cmd.OutOrStdout(), "- %s focus: %d sessions, %d min\n", ui.IconTimer, s.PomodoroSessions, s.FocusMinutes)
			fmt.Fprintln(cmd.OutOrStdout(), "")

			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(ui.IconFlame+" Streak"))
			fmt.Fprintf(cmd.OutOrStdout(), "- current: %d day(s), best: %d\n", s.StreakDays, s.LongestStreak)
			fmt.Fprintln(cmd.OutOrStdout(), "")

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d %s\n",
				ui.H2.Render(ui.IconTrophy+" Achievements:"),
				len(earned), len(engine.Catalog()),
				ui.Muted.Render("(see `ff achievements`)"))

			recent, err := svc.ActivityRepo().ListRecent(ctx, 5)
			if err != nil {
				return err
			}
			if len(recent) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("Recent"))
				for _, a := range recent {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s %s x%d %s\n",
						a.CreatedAt.Format("2006-01-02 15:04"), a.Kind, a.Amount,
						ui.Muted.Render(fmt.Sprintf("(+%d XP)", a.XPAwarded)))
				}
			}
			return nil
		},
	}

	return cmd
}

func xpBar(value, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := value * width / total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
