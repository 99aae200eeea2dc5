package render

import (
	"fmt"
	"io"
	"strings"

	"ticksched/internal/sched"
)

// DefaultBarWidth is the length of a full bar in BarChart.
const DefaultBarWidth = 30

// BarChart draws one horizontal bar per result, scaled against the largest
// value picked by metric.
func BarChart(w io.Writer, title string, results []sched.Result, metric func(sched.Result) int, width int, colored bool) error {
	if width <= 0 {
		width = DefaultBarWidth
	}
	peak := 0
	for _, r := range results {
		peak = max(peak, metric(r))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	for _, r := range results {
		v := metric(r)
		n := 0
		if peak > 0 {
			n = min(v*width/peak, width)
		}
		fmt.Fprintf(&sb, "T%-2d: ", r.ID)
		paint(&sb, ansiColor(r.Color), strings.Repeat("█", n), colored)
		sb.WriteString(strings.Repeat("░", width-n))
		fmt.Fprintf(&sb, " %d\n", v)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Turnaround and Waiting select the metric plotted by BarChart.
func Turnaround(r sched.Result) int { return r.Turnaround }

func Waiting(r sched.Result) int { return r.Waiting }
