package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ticksched/internal/console"
	"ticksched/internal/render"
	"ticksched/internal/sched"
	"ticksched/internal/stats"
	"ticksched/internal/store"
	"ticksched/internal/workload"
)

type runOptions struct {
	step          bool
	ascii         bool
	plain         bool
	quiet         bool
	bmpPath       string
	reportPath    string
	csvDir        string
	tracePath     string
	dbPath        string
	history       int
	snapshotEvery int
	tickMS        int
}

func newRunCmd() *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Simulate a workload and report the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.step, "step", false, "Step through the run interactively (step, rewind, inspect)")
	f.BoolVar(&o.ascii, "ascii", false, "Draw the Gantt chart without ANSI colors")
	f.BoolVar(&o.plain, "plain", false, "Draw the Gantt chart with '#' and '.' only")
	f.BoolVar(&o.quiet, "quiet", false, "Do not print per-tick events")
	f.StringVar(&o.bmpPath, "bmp", "", "Write the Gantt chart as a BMP image to `FILE`")
	f.StringVar(&o.reportPath, "report", "", "Write the text execution report to `FILE`")
	f.StringVar(&o.csvDir, "csv", "", "Export per-task statistics as stats_<ALG>.csv into `DIR`")
	f.Lookup("csv").NoOptDefVal = "."
	f.StringVar(&o.tracePath, "trace", "", "Write every scheduler event as CSV to `FILE`")
	f.StringVar(&o.dbPath, "db", "", "Archive the run in this SQLite database (overrides db_path)")
	f.IntVar(&o.history, "history", 0, "Snapshots retained for rewind (overrides history_limit)")
	f.IntVar(&o.snapshotEvery, "snapshot-every", 0, "Snapshot every N ticks (overrides snapshot_every)")
	f.IntVar(&o.tickMS, "tick-ms", -1, "Milliseconds per tick during playback (overrides tick_ms)")

	return cmd
}

func runSimulation(cmd *cobra.Command, path string, o runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	wl, err := workload.Load(path)
	if err != nil {
		return err
	}
	for _, w := range wl.Warnings {
		logger.Warn("config", "file", path, "warning", w)
	}

	cfg := settings
	if o.history > 0 {
		cfg.HistoryLimit = o.history
	}
	if o.snapshotEvery > 0 {
		cfg.SnapshotEvery = o.snapshotEvery
	}
	if o.tickMS >= 0 {
		cfg.TickMS = o.tickMS
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}

	s, err := sched.New(wl.TaskList(), cfg.Options(wl.Algorithm, wl.Quantum, logger))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("simulation starting", "file", path, "algorithm", s.Algorithm().String(),
		"quantum", s.Quantum(), "tasks", s.TaskCount())

	if !o.quiet {
		s.Observe(sched.NewEventPrinter(out))
	}
	if o.tracePath != "" {
		f, err := os.Create(o.tracePath)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		defer f.Close()
		trace := sched.NewCSVTrace(f)
		s.Observe(trace.Observe)
		defer func() {
			if err := trace.Flush(); err != nil {
				logger.Error("trace", "file", o.tracePath, "error", err)
			}
		}()
	}

	if o.step {
		c := &console.Console{Scheduler: s, In: cmd.InOrStdin(), Out: out, Logger: logger}
		if err := c.Run(ctx); err != nil {
			return err
		}
		if !s.IsComplete() {
			logger.Info("simulation left incomplete", "tick", s.Tick())
			return nil
		}
	} else {
		clock := sched.NewTickClock(time.Duration(cfg.TickMS) * time.Millisecond)
		if err := s.Play(ctx, clock); err != nil {
			return err
		}
	}

	logger.Info("simulation complete", "total_ticks", s.Tick())
	return report(out, path, s, wl, cfg, o)
}

func report(out io.Writer, source string, s *sched.Scheduler, wl *workload.Workload, cfg sched.Config, o runOptions) error {
	tasks := wl.TaskList()
	timeline := s.Timeline()
	results := s.Results()
	total := s.Tick()
	sum := stats.Compute(s.Algorithm(), results, timeline, total)

	var err error
	switch {
	case o.plain:
		err = render.GanttPlain(out, tasks, timeline, total, 0)
	default:
		err = render.GanttASCII(out, tasks, timeline, total, render.GanttOptions{
			Color: !o.ascii && isTerminal(out),
		})
	}
	if err != nil {
		return err
	}

	render.StatsTable(out, results, sum)
	colored := !o.ascii && !o.plain && isTerminal(out)
	if err := render.BarChart(out, "Turnaround", results, render.Turnaround, 0, colored); err != nil {
		return err
	}
	if err := render.BarChart(out, "Waiting", results, render.Waiting, 0, colored); err != nil {
		return err
	}

	if o.bmpPath != "" {
		if err := writeFile(o.bmpPath, func(w io.Writer) error {
			return render.WriteBMP(w, tasks, timeline, total)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nGantt chart saved to %s\n", o.bmpPath)
	}
	if o.reportPath != "" {
		if err := writeFile(o.reportPath, func(w io.Writer) error {
			return render.Report(w, tasks, timeline, total)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report saved to %s\n", o.reportPath)
	}
	if o.csvDir != "" {
		name := filepath.Join(o.csvDir, stats.CSVFileName(s.Algorithm()))
		if err := writeFile(name, func(w io.Writer) error {
			return stats.WriteCSV(w, results)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Statistics exported to %s\n", name)
	}
	if cfg.DBPath != "" {
		id, err := archive(cfg.DBPath, source, s.Quantum(), sum, results, timeline)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Archived as %s\n", id)
	}
	return nil
}

func archive(dbPath, source string, quantum int, sum stats.Summary, results []sched.Result, timeline []sched.Slice) (string, error) {
	ctx := context.Background()
	st, err := store.Open(dbPath, logger)
	if err != nil {
		return "", err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return "", fmt.Errorf("migrate %s: %w", dbPath, err)
	}

	run := store.NewRun(source, quantum, sum, results, timeline)
	if err := st.SaveRun(ctx, run); err != nil {
		return "", err
	}
	logger.Debug("run archived", "id", run.ID, "db", dbPath)
	return run.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
