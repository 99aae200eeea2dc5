package sched

import "fmt"

// TaskID uniquely identifies a task in a simulation.
type TaskID int

// NoTask marks the absence of a running task.
const NoTask TaskID = -1

// Task is the immutable description of one unit of simulated work.
type Task struct {
	ID       TaskID
	Color    string // display tag, e.g. "#FF0000"; opaque to the engine
	Arrival  int    // tick the task enters the system
	Burst    int    // total ticks of CPU work
	Priority int    // lower is more urgent
}

// Validate checks the per-task invariants.
func (t Task) Validate() error {
	switch {
	case t.ID < 0:
		return fmt.Errorf("%w: task id %d is negative", ErrInvalidTask, t.ID)
	case t.Arrival < 0:
		return fmt.Errorf("%w: task %d arrival %d is negative", ErrInvalidTask, t.ID, t.Arrival)
	case t.Burst <= 0:
		return fmt.Errorf("%w: task %d burst %d must be positive", ErrInvalidTask, t.ID, t.Burst)
	}
	return nil
}

// State is a task's lifecycle state.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked // reserved for I/O and mutex waits; never entered by the engine
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// TCB is the mutable runtime state of a task during one run.
// Completion, Turnaround and Waiting are meaningful only once State is StateTerminated.
type TCB struct {
	Task

	Remaining   int
	State       State
	QuantumLeft int // Round-Robin only
	StartTick   int // -1 until first dispatch

	Completion int
	Turnaround int
	Waiting    int
	Response   int
}

// NewTCB builds the initial control block for t.
func NewTCB(t Task, quantum int) TCB {
	return TCB{
		Task:        t,
		Remaining:   t.Burst,
		State:       StateNew,
		QuantumLeft: quantum,
		StartTick:   -1,
	}
}

// eligible reports whether the task may be selected at tick.
func (t *TCB) eligible(tick int) bool {
	return t.Arrival <= tick &&
		t.State != StateTerminated &&
		t.State != StateBlocked &&
		t.Remaining > 0
}

// Result is the final per-task metric record handed to statistics and rendering.
type Result struct {
	ID         TaskID
	Color      string
	Arrival    int
	Burst      int
	Priority   int
	Start      int
	Completion int
	Turnaround int
	Waiting    int
	Response   int
}

func (t *TCB) result() Result {
	return Result{
		ID:         t.ID,
		Color:      t.Color,
		Arrival:    t.Arrival,
		Burst:      t.Burst,
		Priority:   t.Priority,
		Start:      t.StartTick,
		Completion: t.Completion,
		Turnaround: t.Turnaround,
		Waiting:    t.Waiting,
		Response:   t.Response,
	}
}
