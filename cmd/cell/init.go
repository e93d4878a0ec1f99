package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
	"github.com/aretw0/cell/internal/platform"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the location and price records",
	Long: `Mark the directory as a cell root and write the default location and price
records. Existing records are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := dataDir
		if dir == "" {
			dir = conf.Dir
		}
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dir = wd
		}

		if err := os.MkdirAll(filepath.Join(dir, platform.MarkerDir), 0755); err != nil {
			return fmt.Errorf("failed to mark %s: %w", dir, err)
		}

		ctx := cmd.Context()
		loc, err := cell.OpenLocation(ctx, dir, openOptions()...)
		if err != nil {
			return fmt.Errorf("failed to open location: %w", err)
		}
		price, err := cell.OpenPrice(ctx, dir, openOptions()...)
		if err != nil {
			return fmt.Errorf("failed to open price: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized cell records in %s (%s, %s)\n", dir, loc.Name(), price.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
