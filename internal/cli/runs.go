package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ticksched/internal/render"
	"ticksched/internal/sched"
	"ticksched/internal/stats"
	"ticksched/internal/store"
)

var flagRunsDB string

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse archived simulation runs",
	}
	cmd.PersistentFlags().StringVar(&flagRunsDB, "db", "", "SQLite run archive (overrides db_path)")
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd())
	return cmd
}

func openArchive(cmd *cobra.Command) (*store.SQLiteStore, error) {
	path := settings.DBPath
	if flagRunsDB != "" {
		path = flagRunsDB
	}
	if path == "" {
		return nil, errors.New("no run archive configured (use --db or db_path in settings)")
	}
	st, err := store.Open(path, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return st, nil
}

func newRunsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}

			fmt.Fprintf(out, "%-40s  %-9s  %5s  %6s  %8s  %8s  %s\n", "ID", "ALGORITHM", "TASKS", "TICKS", "WAIT", "CPU", "CREATED")
			fmt.Fprintf(out, "%-40s  %-9s  %5s  %6s  %8s  %8s  %s\n", "--", "---------", "-----", "-----", "----", "---", "-------")
			for _, r := range runs {
				fmt.Fprintf(out, "%-40s  %-9s  %5d  %6s  %8.2f  %7.1f%%  %s\n",
					r.ID, r.Algorithm, r.TaskCount, humanize.Comma(int64(r.TotalTime)),
					r.AvgWaiting, r.Utilization, humanize.Time(r.CreatedAt))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an archived run (an unambiguous id prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", run.ID)
			fmt.Fprintf(out, "Source:    %s\n", run.Source)
			fmt.Fprintf(out, "Algorithm: %s (quantum %d)\n", run.Algorithm, run.Quantum)
			fmt.Fprintf(out, "Created:   %s (%s)\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))

			alg, _ := sched.ParseAlgorithm(run.Algorithm)
			tasks := tasksOf(run.Results)
			if err := render.GanttPlain(out, tasks, run.Timeline, run.TotalTime, 0); err != nil {
				return err
			}
			render.StatsTable(out, run.Results, stats.Compute(alg, run.Results, run.Timeline, run.TotalTime))
			return nil
		},
	}
}

// tasksOf recovers the task descriptors recorded in archived results.
func tasksOf(results []sched.Result) []sched.Task {
	tasks := make([]sched.Task, len(results))
	for i, r := range results {
		tasks[i] = sched.Task{ID: r.ID, Color: r.Color, Arrival: r.Arrival, Burst: r.Burst, Priority: r.Priority}
	}
	return tasks
}
