package root

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"flowfocus/internal/config"
	"flowfocus/internal/engine"
	"flowfocus/internal/jobs"
	"flowfocus/internal/storage"
)

func newWatchCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep recurring schedules rolled forward in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lvl, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid FF_LOG_LEVEL: %w", err)
			}
			log.SetLevel(lvl)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			path, err := storage.ResolveDBPath(cfg.DBPath)
			if err != nil {
				return err
			}
			db, err := storage.Open(ctx, path)
			if err != nil {
				return err
			}
			defer db.Close()

			rollover := jobs.NewRollover(engine.NewService(db), cfg.RolloverCron, loc)

			if once {
				n, err := rollover.RunOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled %d task(s) forward\n", n)
				return nil
			}

			if err := rollover.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			rollover.Stop()
			log.Info("rollover scheduler stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single rollover pass and exit")

	return cmd
}
