package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"ticksched/internal/sched"
	"ticksched/internal/stats"
)

// StatsTable writes the per-task metric table followed by the aggregate
// metrics and diagnostics of sum.
func StatsTable(w io.Writer, results []sched.Result, sum stats.Summary) {
	fmt.Fprintf(w, "\nPERFORMANCE ANALYSIS - %s\n\n", sum.Algorithm)

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			fmt.Sprintf("T%d", r.ID),
			strconv.Itoa(r.Arrival),
			strconv.Itoa(r.Burst),
			strconv.Itoa(r.Priority),
			strconv.Itoa(r.Start),
			strconv.Itoa(r.Completion),
			strconv.Itoa(r.Turnaround),
			strconv.Itoa(r.Waiting),
			strconv.Itoa(r.Response),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Arrival", "Burst", "Priority", "Start", "Completion", "Turnaround", "Waiting", "Response"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "", "Average",
		fmt.Sprintf("%.2f", sum.AvgTurnaround),
		fmt.Sprintf("%.2f", sum.AvgWaiting),
		fmt.Sprintf("%.2f", sum.AvgResponse)})
	table.Render()

	fmt.Fprintf(w, "\nTotal time:       %d ticks\n", sum.TotalTime)
	fmt.Fprintf(w, "Makespan:         %d ticks\n", sum.Makespan)
	fmt.Fprintf(w, "Throughput:       %.3f tasks/tick\n", sum.Throughput)
	fmt.Fprintf(w, "CPU utilization:  %.1f%% (%s)\n", sum.Utilization, sum.Grade())
	fmt.Fprintf(w, "Context switches: %d\n", sum.ContextSwitches)

	fmt.Fprintln(w, "\nDiagnostics:")
	byID := make(map[sched.TaskID]sched.Result, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}
	if len(sum.Starved) == 0 {
		fmt.Fprintln(w, "  no starvation detected")
	}
	for _, id := range sum.Starved {
		r := byID[id]
		fmt.Fprintf(w, "  possible starvation of T%d (waiting %d, burst %d)\n", id, r.Waiting, r.Burst)
	}
	if sum.Convoy {
		fmt.Fprintln(w, "  possible convoy effect (a long task held back shorter ones)")
	}
}

// StateTable writes the task control blocks of a state view.
func StateTable(w io.Writer, view sched.StateView) {
	running := "idle"
	if view.Running != sched.NoTask {
		running = fmt.Sprintf("T%d", view.Running)
	}
	status := ""
	if view.Complete {
		status = ", complete"
	}
	fmt.Fprintf(w, "Tick %d, running %s%s\n", view.Tick, running, status)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "State", "Arrival", "Burst", "Remaining", "Priority", "Quantum", "Start"})
	for _, t := range view.Tasks {
		start := "-"
		if t.StartTick >= 0 {
			start = strconv.Itoa(t.StartTick)
		}
		table.Append([]string{
			fmt.Sprintf("T%d", t.ID),
			t.State.String(),
			strconv.Itoa(t.Arrival),
			strconv.Itoa(t.Burst),
			strconv.Itoa(t.Remaining),
			strconv.Itoa(t.Priority),
			strconv.Itoa(t.QuantumLeft),
			start,
		})
	}
	table.Render()
}
