package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rover-photos/internal/app"
	"github.com/samvad-hq/rover-photos/internal/logger"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish new photos of the configured targets",
		Long: `Sync fetches the photos of every target in targets_file, skips photos
already recorded in the seen-photo store and publishes the rest to every
enabled publisher in publishers_file.

Without --once it repeats every sync_interval seconds until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}
	cmd.Flags().Bool("once", false, "Run a single sync pass and print a summary")
	addFormatFlag(cmd)
	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	once, _ := cmd.Flags().GetBool("once")
	out, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	logger.InfoObj("sync starting", "config", cfg)

	ctx := cmd.Context()
	syncer, err := app.NewSyncer(ctx, cfg, logger.NewZapLogger(sugar))
	if err != nil {
		logger.ErrorObj("failed to initialize syncer", "error", err)
		return err
	}

	if !once {
		if err := syncer.Run(ctx); err != nil {
			return fmt.Errorf("sync run: %w", err)
		}
		return nil
	}

	defer syncer.Close()
	results, runErr := syncer.RunOnce(ctx)
	if runErr != nil {
		logger.WarnObj("sync pass finished with errors", "error", runErr)
	}
	if err := out.SyncResults(results); err != nil {
		return err
	}
	return runErr
}
