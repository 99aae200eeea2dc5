package sched

import "slices"

// Slice is one contiguous execution interval [Start, End) of a task.
type Slice struct {
	TaskID TaskID `json:"task_id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Color  string `json:"color"`
}

// Width is the number of ticks covered.
func (s Slice) Width() int { return s.End - s.Start }

// Timeline is the ordered execution record of a run.
type Timeline struct {
	slices []Slice
}

// Record notes that id ran during [tick, tick+1). The last slice is extended
// when it belongs to the same task and ends exactly at tick.
func (tl *Timeline) Record(id TaskID, tick int, color string) {
	if n := len(tl.slices); n > 0 {
		last := &tl.slices[n-1]
		if last.TaskID == id && last.End == tick {
			last.End++
			return
		}
	}
	tl.slices = append(tl.slices, Slice{TaskID: id, Start: tick, End: tick + 1, Color: color})
}

// Slices returns a copy of the recorded intervals.
func (tl *Timeline) Slices() []Slice { return slices.Clone(tl.slices) }

// Len is the number of recorded intervals.
func (tl *Timeline) Len() int { return len(tl.slices) }

// At returns the task that ran during tick, or NoTask.
func (tl *Timeline) At(tick int) TaskID {
	for i := len(tl.slices) - 1; i >= 0; i-- {
		s := tl.slices[i]
		if s.Start <= tick && tick < s.End {
			return s.TaskID
		}
		if s.End <= tick {
			break
		}
	}
	return NoTask
}

// WorkByTask sums interval widths per task.
func WorkByTask(ss []Slice) map[TaskID]int {
	out := make(map[TaskID]int)
	for _, s := range ss {
		out[s.TaskID] += s.Width()
	}
	return out
}
