package render

import (
	"fmt"
	"io"
	"strings"

	"ticksched/internal/sched"
)

// Display limits used when GanttOptions.MaxWidth is zero.
const (
	DefaultASCIIWidth = 60
	DefaultPlainWidth = 50
)

// GanttOptions controls terminal chart output.
type GanttOptions struct {
	Color    bool // emit ANSI colors derived from each task's hex color
	MaxWidth int  // ticks shown before truncating
}

// GanttASCII draws one row per task with a tens/units ruler, a per-task tick
// count and a CPU summary.
func GanttASCII(w io.Writer, tasks []sched.Task, timeline []sched.Slice, totalTime int, opts GanttOptions) error {
	g, err := newGrid(tasks, timeline, totalTime)
	if err != nil {
		return err
	}
	limit := opts.MaxWidth
	if limit <= 0 {
		limit = DefaultASCIIWidth
	}
	shown := min(totalTime, limit)
	rule := "      " + strings.Repeat("─", shown) + "\n"

	var sb strings.Builder
	sb.WriteString("\n")
	paint(&sb, "\x1b[1m", "GANTT CHART", opts.Color)
	sb.WriteString("\n\n")

	var tens strings.Builder
	tens.WriteString("      ")
	for t := 0; t < shown; t += 10 {
		fmt.Fprintf(&tens, "%-10d", t)
	}
	sb.WriteString(strings.TrimRight(tens.String(), " "))
	sb.WriteString("\n")

	sb.WriteString("Time  ")
	for t := 0; t < shown; t++ {
		sb.WriteByte(byte('0' + t%10))
	}
	sb.WriteString("\n")
	sb.WriteString(rule)

	for i, task := range g.tasks {
		fmt.Fprintf(&sb, "T%-3d  ", task.ID)
		color := ansiColor(task.Color)
		for t := 0; t < shown; t++ {
			if g.cells[i][t] {
				paint(&sb, color, "█", opts.Color)
			} else {
				sb.WriteString("·")
			}
		}
		fmt.Fprintf(&sb, "  [%2d ticks]\n", g.busy[i])
	}
	sb.WriteString(rule)

	sb.WriteString("\nLegend:\n")
	sb.WriteString("  █ = running\n")
	sb.WriteString("  · = not running\n")
	if totalTime > shown {
		fmt.Fprintf(&sb, "\nNote: showing the first %d of %d ticks\n", shown, totalTime)
	}

	busy := g.totalBusy()
	fmt.Fprintf(&sb, "\nTotal time: %d ticks\n", totalTime)
	fmt.Fprintf(&sb, "CPU busy: %d ticks\n", busy)
	fmt.Fprintf(&sb, "CPU utilization: %.1f%%\n", float64(busy)/float64(totalTime)*100)
	fmt.Fprintf(&sb, "Tasks: %d\n", len(g.tasks))
	fmt.Fprintf(&sb, "Context switches: %d\n", max(len(timeline)-1, 0))

	_, err = io.WriteString(w, sb.String())
	return err
}

// GanttPlain draws the chart with '#' and '.' only, for terminals without
// color or box-drawing support.
func GanttPlain(w io.Writer, tasks []sched.Task, timeline []sched.Slice, totalTime int, maxWidth int) error {
	g, err := newGrid(tasks, timeline, totalTime)
	if err != nil {
		return err
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPlainWidth
	}
	shown := min(totalTime, maxWidth)

	var sb strings.Builder
	sb.WriteString("\n=== GANTT CHART ===\n\n")

	var ruler strings.Builder
	ruler.WriteString("     ")
	for t := 0; t < shown; t += 5 {
		fmt.Fprintf(&ruler, "%-5d", t)
	}
	sb.WriteString(strings.TrimRight(ruler.String(), " "))
	sb.WriteString("\n")

	for i, task := range g.tasks {
		fmt.Fprintf(&sb, "T%2d: ", task.ID)
		for t := 0; t < shown; t++ {
			if g.cells[i][t] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("\n")
	}

	_, err = io.WriteString(w, sb.String())
	return err
}

// Report writes the full-width text report: a ruler, one '*' row per task
// and the list of execution slices.
func Report(w io.Writer, tasks []sched.Task, timeline []sched.Slice, totalTime int) error {
	g, err := newGrid(tasks, timeline, totalTime)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("GANTT CHART - EXECUTION REPORT\n")
	sb.WriteString("==============================\n\n")

	sb.WriteString("Time: ")
	for t := 0; t < totalTime; t++ {
		sb.WriteByte(byte('0' + t%10))
	}
	sb.WriteString("\n")

	for i, task := range g.tasks {
		fmt.Fprintf(&sb, "T%02d:  ", task.ID)
		for t := 0; t < totalTime; t++ {
			if g.cells[i][t] {
				sb.WriteByte('*')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nLegend: * = running, space = waiting\n\n")
	sb.WriteString("EXECUTION DETAILS:\n")
	sb.WriteString("------------------\n")
	for _, s := range timeline {
		fmt.Fprintf(&sb, "Task %d: ticks %d-%d (duration: %d)\n", s.TaskID, s.Start, s.End, s.Width())
	}

	_, err = io.WriteString(w, sb.String())
	return err
}
