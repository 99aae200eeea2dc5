// Package stats derives aggregate metrics and diagnostics from a finished run.
package stats

import (
	"encoding/csv"
	"io"
	"strconv"

	"ticksched/internal/sched"
)

// Summary is the aggregate view of one simulation.
type Summary struct {
	Algorithm sched.Algorithm
	Tasks     int
	TotalTime int

	AvgTurnaround float64
	AvgWaiting    float64
	AvgResponse   float64
	MaxTurnaround int
	MaxWaiting    int

	BusyTicks       int
	Utilization     float64 // percent of TotalTime spent executing
	Throughput      float64 // completed tasks per tick
	ContextSwitches int
	Makespan        int // last completion minus first arrival

	// Starved lists tasks whose waiting time exceeds three times their burst.
	Starved []sched.TaskID
	// Convoy is set for FIFO runs where a long first task held back short ones.
	Convoy bool
}

// Compute builds a Summary from per-task results and the execution timeline.
func Compute(alg sched.Algorithm, results []sched.Result, timeline []sched.Slice, totalTime int) Summary {
	s := Summary{Algorithm: alg, Tasks: len(results), TotalTime: totalTime}
	if len(results) == 0 {
		return s
	}

	var turnaround, waiting, response int
	firstArrival, lastCompletion := results[0].Arrival, 0
	for _, r := range results {
		turnaround += r.Turnaround
		waiting += r.Waiting
		response += r.Response
		s.MaxTurnaround = max(s.MaxTurnaround, r.Turnaround)
		s.MaxWaiting = max(s.MaxWaiting, r.Waiting)
		firstArrival = min(firstArrival, r.Arrival)
		lastCompletion = max(lastCompletion, r.Completion)

		if r.Waiting > 3*r.Burst {
			s.Starved = append(s.Starved, r.ID)
		}
	}
	n := float64(len(results))
	s.AvgTurnaround = float64(turnaround) / n
	s.AvgWaiting = float64(waiting) / n
	s.AvgResponse = float64(response) / n
	s.Makespan = lastCompletion - firstArrival

	for _, sl := range timeline {
		s.BusyTicks += sl.Width()
	}
	s.ContextSwitches = max(len(timeline)-1, 0)
	if totalTime > 0 {
		s.Utilization = float64(s.BusyTicks) / float64(totalTime) * 100
		s.Throughput = n / float64(totalTime)
	}

	if alg == sched.FIFO {
		s.Convoy = convoy(results)
	}
	return s
}

// convoy reports whether a first task more than twice as long as some later
// task kept that task waiting for more than twice its own burst.
func convoy(results []sched.Result) bool {
	head := results[0]
	for _, r := range results[1:] {
		if head.Burst > 2*r.Burst && r.Waiting > 2*r.Burst {
			return true
		}
	}
	return false
}

// Grade classifies CPU utilization.
func (s Summary) Grade() string {
	switch {
	case s.Utilization > 80:
		return "Excellent"
	case s.Utilization > 60:
		return "Good"
	default:
		return "Low"
	}
}

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{"ID", "Arrival", "Burst", "Priority", "Completion", "Turnaround", "Waiting", "Response"}

// WriteCSV writes one row per task.
func WriteCSV(out io.Writer, results []sched.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(int(r.ID)),
			strconv.Itoa(r.Arrival),
			strconv.Itoa(r.Burst),
			strconv.Itoa(r.Priority),
			strconv.Itoa(r.Completion),
			strconv.Itoa(r.Turnaround),
			strconv.Itoa(r.Waiting),
			strconv.Itoa(r.Response),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// CSVFileName is the conventional export name for alg, e.g. stats_FIFO.csv.
func CSVFileName(alg sched.Algorithm) string {
	return "stats_" + alg.String() + ".csv"
}
