package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/datacontroller/cmd/listsim/internal/config"
	"github.com/go-drift/datacontroller/cmd/listsim/internal/scenario"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var (
		format  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Play a scenario and print each snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.ResolveDir(flags.configDir)
			if err != nil {
				return err
			}
			if flags.workers > 0 {
				resolved.Workers = flags.workers
			}
			if flags.logLevel != "" {
				level, err := config.ParseLevel(flags.logLevel)
				if err != nil {
					return err
				}
				resolved.LogLevel = level
			}
			if flags.logFormat != "" {
				format, err := config.ParseFormat(flags.logFormat)
				if err != nil {
					return err
				}
				resolved.LogFormat = format
			}
			if format != scenario.FormatSummary && format != scenario.FormatYAML {
				return fmt.Errorf("--format must be %s or %s (got %q)", scenario.FormatSummary, scenario.FormatYAML, format)
			}

			logger := newLogger(cmd.ErrOrStderr(), resolved.LogLevel, resolved.LogFormat)
			if resolved.Path != "" {
				logger.Debug("config loaded", "path", resolved.Path)
			}

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			runner := &scenario.Runner{
				Out:     cmd.OutOrStdout(),
				Format:  format,
				Options: resolved.ControllerOptions(logger),
				Width:   resolved.Width,
				Timeout: timeout,
			}
			results, err := runner.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}
			rejected := 0
			for _, res := range results {
				if res.Invalid() {
					rejected++
				}
			}
			logger.Info("scenario finished", "name", sc.Name, "steps", len(results), "rejected", rejected)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", scenario.FormatSummary, "output format (summary or yaml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum wait for a step to publish")
	return cmd
}
