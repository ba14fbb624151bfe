package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flowfocus/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "ff",
	Short:         "Local-first productivity tracker with recurring tasks and achievements",
	Long:          "FlowFocus is a local-first CLI/TUI bundling tasks with recurring schedules, activity tracking, and achievement progression.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoneCmd(),
		newLogCmd(),
		newListCmd(),
		newStatsCmd(),
		newAchievementsCmd(),
		newRepeatCmd(),
		newWatchCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
