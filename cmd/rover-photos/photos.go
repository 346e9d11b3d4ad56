package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rover-photos/internal/app"
	"github.com/samvad-hq/rover-photos/internal/domain"
)

// NewPhotosCmd creates the photos command.
func NewPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos <name>",
		Short: "List a rover's photos for one sol",
		Long: `List the photo references a rover took on one sol (Martian day).

Examples:
  rover-photos photos curiosity --sol 1000
  rover-photos photos opportunity -s 1 --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runPhotosCmd,
	}
	cmd.Flags().IntP("sol", "s", 0, "Sol to list photos for")
	_ = cmd.MarkFlagRequired("sol")
	addFormatFlag(cmd)
	return cmd
}

func runPhotosCmd(cmd *cobra.Command, args []string) error {
	sol, err := cmd.Flags().GetInt("sol")
	if err != nil {
		return err
	}
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

	photos, err := client.PhotoReferences(cmd.Context(), domain.RoverInfo{Name: args[0]}, sol)
	if err != nil {
		return fmt.Errorf("fetch photos %s sol %d: %w", args[0], sol, err)
	}
	return out.Photos(args[0], sol, photos)
}
