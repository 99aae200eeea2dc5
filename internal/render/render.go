// Package render draws a finished (or partial) run for people: terminal
// Gantt charts, a plain-text report, tables and a BMP image.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ticksched/internal/sched"
)

// ErrNothingToRender is returned when there are no tasks or no elapsed time.
var ErrNothingToRender = errors.New("nothing to render")

const ansiReset = "\x1b[0m"

// grid is the task-by-tick occupancy matrix shared by the text renderers.
// Rows follow the order of the task list; slices for unknown task ids are dropped.
type grid struct {
	tasks []sched.Task
	cells [][]bool
	busy  []int
	width int
}

func newGrid(tasks []sched.Task, timeline []sched.Slice, totalTime int) (*grid, error) {
	if len(tasks) == 0 || totalTime <= 0 {
		return nil, ErrNothingToRender
	}

	g := &grid{
		tasks: tasks,
		cells: make([][]bool, len(tasks)),
		busy:  make([]int, len(tasks)),
		width: totalTime,
	}
	row := make(map[sched.TaskID]int, len(tasks))
	for i, t := range tasks {
		row[t.ID] = i
		g.cells[i] = make([]bool, totalTime)
	}

	for _, s := range timeline {
		r, ok := row[s.TaskID]
		if !ok {
			continue
		}
		for t := max(s.Start, 0); t < s.End && t < totalTime; t++ {
			if !g.cells[r][t] {
				g.cells[r][t] = true
				g.busy[r]++
			}
		}
	}
	return g, nil
}

func (g *grid) totalBusy() int {
	n := 0
	for _, b := range g.busy {
		n += b
	}
	return n
}

// parseHex decodes "#RRGGBB" (the leading '#' is optional).
func parseHex(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// ansiColor returns a 24-bit foreground escape for a hex color, or "" when
// the color cannot be parsed.
func ansiColor(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

func paint(sb *strings.Builder, color, text string, enabled bool) {
	if enabled && color != "" {
		sb.WriteString(color)
		sb.WriteString(text)
		sb.WriteString(ansiReset)
		return
	}
	sb.WriteString(text)
}
