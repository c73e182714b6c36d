// Package cmd implements the listsim CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type globalFlags struct {
	configDir string
	logLevel  string
	logFormat string
	workers   int
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "listsim",
		Short: "Simulate list updates through the data controller",
		Long: `listsim reads a scenario of section and item updates, plays it against
a simulated text data source, and prints each published snapshot.

Settings are read from listsim.yaml in the config directory, if present.
Flags override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", ".", "directory containing listsim.yaml")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (text or json)")
	root.PersistentFlags().IntVar(&flags.workers, "workers", 0, "layout workers (0 uses the config or GOMAXPROCS)")

	root.AddCommand(newRunCommand(flags), newVersionCommand())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
