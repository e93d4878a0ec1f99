package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cell version %s\n", strings.TrimSpace(cell.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
