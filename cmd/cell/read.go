package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:       "read location|price",
	Short:     "Print the current record",
	Long:      `Print the current record as YAML, or as a JSON object with --json. The file is never written.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: kinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		opts := openOptions(cell.WithReadOnly(true), cell.WithMustExist(true))

		var record any
		switch args[0] {
		case "location":
			s, err := cell.OpenLocation(ctx, dir, opts...)
			if err != nil {
				return fmt.Errorf("failed to open location: %w", err)
			}
			record = s.Snapshot()
		case "price":
			s, err := cell.OpenPrice(ctx, dir, opts...)
			if err != nil {
				return fmt.Errorf("failed to open price: %w", err)
			}
			record = s.Snapshot()
		}

		return printRecord(cmd.OutOrStdout(), record, readJSON)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
