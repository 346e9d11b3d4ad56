package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rover-photos/internal/app"
)

// NewRoverCmd creates the rover command.
func NewRoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rover <name>",
		Short: "Show rover metadata",
		Long: `Show a rover's mission metadata: status, launch and landing dates,
latest sol and the number of photos per sol.

Examples:
  rover-photos rover curiosity
  rover-photos rover perseverance --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runRoverCmd,
	}
	addFormatFlag(cmd)
	return cmd
}

func runRoverCmd(cmd *cobra.Command, args []string) error {
	out, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := app.NewRoverClient(cfg)
	if err != nil {
		return err
	}

	info, err := client.RoverInfo(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch rover %s: %w", args[0], err)
	}
	return out.Rover(info)
}
