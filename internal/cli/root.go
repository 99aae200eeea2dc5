// Package cli wires the ticksched commands.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"ticksched/internal/logging"
	"ticksched/internal/sched"
)

var (
	flagSettings  string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	settings sched.Config
	logger   *slog.Logger
)

// NewRootCmd creates the root cobra command for the ticksched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ticksched",
		Short: "ticksched: tick-driven CPU scheduling simulator",
		Long: "ticksched replays a task workload under FIFO, Round-Robin, SRTF or PRIORITY\n" +
			"scheduling one tick at a time, with rewind, Gantt charts and statistics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sched.Load(flagSettings)
			if err != nil {
				return err
			}
			settings = cfg

			level, format := settings.LogLevel, settings.LogFormat
			if cmd.Flags().Changed("log-level") {
				level = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				format = flagLogFormat
			}
			if flagDebug {
				level = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(level), format, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagSettings, "settings", "", "YAML settings file (history, pacing, default quantum, logging, archive)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newExampleCmd(),
		newRunsCmd(),
	)

	return root
}
