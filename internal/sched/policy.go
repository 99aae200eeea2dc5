// internal/sched/policy.go

package sched

import "strings"

// Algorithm selects the scheduling discipline of a run.
type Algorithm int

const (
	FIFO Algorithm = iota
	RoundRobin
	SRTF
	Priority
)

func (a Algorithm) String() string {
	switch a {
	case FIFO:
		return "FIFO"
	case RoundRobin:
		return "RR"
	case SRTF:
		return "SRTF"
	case Priority:
		return "PRIORITY"
	default:
		return "UNKNOWN"
	}
}

// Algorithms lists every supported discipline.
func Algorithms() []Algorithm { return []Algorithm{FIFO, RoundRobin, SRTF, Priority} }

// ParseAlgorithm decodes a configuration name. Unknown names decode to FIFO
// with ok == false so the caller can warn.
func ParseAlgorithm(name string) (alg Algorithm, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FIFO":
		return FIFO, true
	case "RR":
		return RoundRobin, true
	case "SRTF":
		return SRTF, true
	case "PRIORITY":
		return Priority, true
	default:
		return FIFO, false
	}
}

// Preemptive reports whether a newly eligible task can displace the running one.
func (a Algorithm) Preemptive() bool { return a != FIFO }

// View is the read-only input to a selection. Tasks must not be modified.
type View struct {
	Tasks   []TCB
	Tick    int
	Running int // index into Tasks, -1 when idle
}

// Decision is the outcome of a selection.
type Decision struct {
	Index        int  // index into View.Tasks, -1 for idle
	ResetQuantum bool // grant the selected task a fresh quantum
}

var idle = Decision{Index: -1}

// Select picks the task that occupies the processor for the coming tick.
func (a Algorithm) Select(v View) Decision {
	switch a {
	case RoundRobin:
		return selectRoundRobin(v)
	case SRTF:
		return selectMin(v, func(t *TCB) int { return t.Remaining })
	case Priority:
		return selectMin(v, func(t *TCB) int { return t.Priority })
	default:
		return selectFIFO(v)
	}
}

func (v View) running() *TCB {
	if v.Running < 0 || v.Running >= len(v.Tasks) {
		return nil
	}
	return &v.Tasks[v.Running]
}

// selectFIFO runs the current task to completion, then takes the earliest arrival.
func selectFIFO(v View) Decision {
	if cur := v.running(); cur != nil && cur.State == StateRunning && cur.Remaining > 0 {
		return Decision{Index: v.Running}
	}
	return selectMin(v, func(t *TCB) int { return t.Arrival })
}

// selectRoundRobin keeps the current task while it has quantum left, then
// scans circularly starting after it. The current task is the last slot
// visited, so it continues with a new quantum when no one else is eligible.
func selectRoundRobin(v View) Decision {
	if cur := v.running(); cur != nil && cur.State == StateRunning &&
		cur.Remaining > 0 && cur.QuantumLeft > 0 {
		return Decision{Index: v.Running}
	}

	n := len(v.Tasks)
	start := 0
	if v.Running >= 0 {
		start = v.Running + 1
	}
	for off := 0; off < n; off++ {
		idx := (start + off) % n
		if v.Tasks[idx].eligible(v.Tick) {
			return Decision{Index: idx, ResetQuantum: true}
		}
	}
	return idle
}

// selectMin returns the eligible task with the smallest key, ties broken by id.
func selectMin(v View, key func(*TCB) int) Decision {
	best := idle
	var bestKey rankKey
	for i := range v.Tasks {
		t := &v.Tasks[i]
		if !t.eligible(v.Tick) {
			continue
		}
		k := rankKey{primary: key(t), id: t.ID}
		if best.Index < 0 || compareRank(k, bestKey) < 0 {
			best = Decision{Index: i}
			bestKey = k
		}
	}
	return best
}

// rankKey orders candidates by a policy-specific value, then task ID.
type rankKey struct {
	primary int
	id      TaskID
}

func compareRank(a, b rankKey) int {
	switch {
	case a.primary < b.primary:
		return -1
	case a.primary > b.primary:
		return 1
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	default:
		return 0
	}
}
