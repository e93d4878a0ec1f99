package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
	"github.com/aretw0/cell/internal/config"
	"github.com/aretw0/cell/internal/platform"
)

var (
	verbose bool
	dataDir string
	format  string

	conf = &config.Config{Format: "yaml", LogLevel: slog.LevelInfo, DevSafety: true}
)

// kinds lists the records the CLI knows about.
var kinds = []string{"location", "price"}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cell",
	Short: "Reactive single-value stores for app resources",
	Long: `Cell keeps the current location and price records as YAML or JSON files.
Every change goes through a serialized store and is streamed to its watchers.

Defaults can be set with CELL_DIR, CELL_FORMAT, CELL_LOG_LEVEL, CELL_DEV_SAFETY,
CELL_STRICT and CELL_METRICS_ADDRESS. Flags take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Parse()
		if err != nil {
			return err
		}
		conf = c

		if !cmd.Flags().Changed("format") {
			format = conf.Format
		}

		level := conf.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("cell", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Directory holding the records (default: nearest .cell root, else current directory)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "yaml", "Record file format: yaml, yml or json")
}

// resolveDir picks the records directory: --dir, then CELL_DIR, then the
// nearest directory marked with .cell, then the working directory.
func resolveDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	if conf.Dir != "" {
		return conf.Dir, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := platform.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

// openOptions returns the store options shared by every command.
func openOptions(extra ...cell.Option) []cell.Option {
	opts := []cell.Option{
		cell.WithLogger(slog.Default()),
		cell.WithFormat(format),
		cell.WithStrict(conf.Strict),
		cell.WithDevSafety(conf.DevSafety),
	}
	return append(opts, extra...)
}
