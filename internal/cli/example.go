package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ticksched/internal/workload"
)

func newExampleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "example <" + strings.Join(workload.ExampleNames(), "|") + ">",
		Short:     "Write a ready-made workload file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: workload.ExampleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := workload.Example(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return workload.Format(cmd.OutOrStdout(), wl)
			}
			if err := writeFile(output, func(w io.Writer) error { return workload.Format(w, wl) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s example (%d tasks, %s) to %s\n",
				args[0], len(wl.Tasks), wl.Algorithm, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to `FILE` instead of stdout")
	return cmd
}
