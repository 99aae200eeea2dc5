package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticksched/internal/sched"
	"ticksched/internal/workload"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a workload file and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := workload.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// Building the engine applies the same checks a run would.
			if _, err := sched.New(wl.TaskList(), settings.Options(wl.Algorithm, wl.Quantum, logger)); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			for _, w := range wl.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if err := workload.Format(out, wl); err != nil {
				return err
			}
			fmt.Fprintf(out, "ok: %d tasks, algorithm %s\n", len(wl.Tasks), wl.Algorithm)
			return nil
		},
	}
}
