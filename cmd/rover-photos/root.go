package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rover-photos/internal/config"
	"github.com/samvad-hq/rover-photos/internal/report"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rover-photos",
		Short: "Query and sync Mars rover photos",
		Long: `rover-photos queries the Mars rover photo API for rover metadata and
per-sol photo lists, and syncs new photos of configured rovers to publishers
(HTTP webhooks, SQS, SNS, Google Pub/Sub).

Configuration is read from environment variables and configs/.env.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("api-url", "", "Override the API base URL (api_base_url)")
	cmd.PersistentFlags().String("api-key", "", "Override the API key (api_key)")

	cmd.AddCommand(NewRoverCmd())
	cmd.AddCommand(NewPhotosCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command until it finishes or a signal arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the environment config and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(report.FormatText), "Output format: text, json or markdown")
}

func outputWriter(cmd *cobra.Command) (report.Writer, error) {
	raw, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(cmd.OutOrStdout(), format)
}
