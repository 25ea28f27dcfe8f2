package commands

import (
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ovumcy-insights/internal/cli"
)

func newRecomputeCommand() *cobra.Command {
	var workers int

	command := &cobra.Command{
		Use:   "recompute",
		Short: "Refresh the stored prediction of every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 1 {
				workers = cfg.RecomputeWorkers
			}

			database, closeDatabase, err := openDatabase(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer closeDatabase()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := cli.RunRecomputeCommand(ctx, database, cfg.Location, workers, time.Now(), logger)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(summary)
		},
	}
	command.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default RECOMPUTE_WORKERS)")
	return command
}
