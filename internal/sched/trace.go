package sched

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NewEventPrinter returns an Observer that writes one human-readable line per event.
// Idle ticks are skipped for the brevity of output.
func NewEventPrinter(w io.Writer) Observer {
	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := (width - len(str)) / 2
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	return func(ev StatusEvent) {
		if ev.Kind == StatusIdle {
			return
		}
		if ev.TaskID == NoTask {
			fmt.Fprintf(w, "Tick: %07d [%s]\n", ev.Tick, center(ev.Kind.String(), 16))
			return
		}
		fmt.Fprintf(w, "Tick: %07d [%s] => Task: %04d, remaining: %04d ticks\n",
			ev.Tick, center(ev.Kind.String(), 16), ev.TaskID, ev.Remaining)
	}
}

// CSVTrace records every event as a CSV row.
type CSVTrace struct {
	w   *csv.Writer
	err error
}

// NewCSVTrace writes the header row and returns a trace bound to w.
func NewCSVTrace(w io.Writer) *CSVTrace {
	t := &CSVTrace{w: csv.NewWriter(w)}
	t.write([]string{"tick", "event", "task_id", "remaining"})
	return t
}

// Observe is an Observer.
func (t *CSVTrace) Observe(ev StatusEvent) {
	t.write([]string{
		strconv.Itoa(ev.Tick),
		ev.Kind.String(),
		strconv.Itoa(int(ev.TaskID)),
		strconv.Itoa(ev.Remaining),
	})
}

func (t *CSVTrace) write(rec []string) {
	if t.err != nil {
		return
	}
	t.err = t.w.Write(rec)
}

// Flush flushes buffered rows and reports the first write error.
func (t *CSVTrace) Flush() error {
	t.w.Flush()
	if t.err != nil {
		return t.err
	}
	return t.w.Error()
}
