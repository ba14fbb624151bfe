package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flowfocus/internal/engine"
	"flowfocus/internal/storage"
	"flowfocus/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show the achievement catalog and what you've unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			unlocked, err := svc.AchievementRepo().ListByUser(ctx, storage.MainUserKey)
			if err != nil {
				return err
			}
			when := map[string]string{}
			for _, ua := range unlocked {
				when[ua.AchievementKey] = ua.UnlockedAt.Format("2006-01-02")
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTrophy, "Achievements"))
			category := ""
			for _, a := range engine.Catalog() {
				if a.Category != category {
					category = a.Category
					fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(category))
				}

				status := ui.Muted.Render("locked")
				if date, ok := when[a.Key]; ok {
					status = ui.Good.Render("unlocked " + date)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s - %s %s %s\n",
					a.Icon, a.Name, ui.RarityText(string(a.Rarity)),
					ui.Muted.Render(a.Description),
					ui.Muted.Render(fmt.Sprintf("(%d pts)", a.Points)),
					status)
			}
			return nil
		},
	}

	return cmd
}
