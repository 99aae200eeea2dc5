// internal/sched/scheduler.go

package sched

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"ticksched/internal/logging"
)

// Options configures a Scheduler.
type Options struct {
	Algorithm     Algorithm
	Quantum       int // Round-Robin time slice in ticks
	HistoryLimit  int // retained snapshots; <= 0 selects DefaultHistoryLimit
	SnapshotEvery int // snapshot every N ticks; <= 0 means every tick
	Logger        *slog.Logger
}

// Scheduler is the tick-driven simulation engine. It owns the task control
// blocks, the execution timeline and the snapshot history of a single run.
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	alg           Algorithm
	quantum       int
	snapshotEvery int

	tick     int
	tasks    []TCB
	index    map[TaskID]int // task id -> position in tasks
	running  int            // index into tasks, -1 when idle
	timeline Timeline
	history  *History

	observers []Observer
	logger    *slog.Logger
}

// New validates tasks and builds a Scheduler positioned at tick 0.
func New(tasks []Task, opts Options) (*Scheduler, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if opts.Algorithm == RoundRobin && opts.Quantum <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantum, opts.Quantum)
	}

	s := &Scheduler{
		alg:           opts.Algorithm,
		quantum:       opts.Quantum,
		snapshotEvery: max(opts.SnapshotEvery, 1),
		tasks:         make([]TCB, 0, len(tasks)),
		index:         make(map[TaskID]int, len(tasks)),
		running:       -1,
		history:       NewHistory(opts.HistoryLimit),
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "sched", "algorithm", s.alg.String())

	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTask, t.ID)
		}
		s.index[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, NewTCB(t, opts.Quantum))
	}
	return s, nil
}

// Observe registers fn to receive every subsequent StatusEvent.
func (s *Scheduler) Observe(fn Observer) { s.observers = append(s.observers, fn) }

// Algorithm returns the active discipline.
func (s *Scheduler) Algorithm() Algorithm { return s.alg }

// Quantum returns the configured Round-Robin quantum.
func (s *Scheduler) Quantum() int { return s.quantum }

// Tick returns the current simulated time, which is the total time once complete.
func (s *Scheduler) Tick() int { return s.tick }

// TaskCount returns the number of tasks in the run.
func (s *Scheduler) TaskCount() int { return len(s.tasks) }

// History exposes the snapshot store for inspection.
func (s *Scheduler) History() *History { return s.history }

// IsComplete reports whether every task has terminated.
func (s *Scheduler) IsComplete() bool {
	for i := range s.tasks {
		if s.tasks[i].State != StateTerminated {
			return false
		}
	}
	return true
}

// Step executes exactly one tick.
func (s *Scheduler) Step() error {
	if s.IsComplete() {
		return ErrComplete
	}

	// 1) snapshot pre-mutation state
	if s.tick%s.snapshotEvery == 0 {
		s.history.Save(s.snapshot())
	}

	// 2) arrivals
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.State == StateNew && t.Arrival == s.tick {
			t.State = StateReady
			s.emit(StatusArrive, t)
		}
	}

	// 3) policy selection
	d := s.alg.Select(View{Tasks: s.tasks, Tick: s.tick, Running: s.running})
	if d.ResetQuantum && d.Index >= 0 {
		s.tasks[d.Index].QuantumLeft = s.quantum
	}

	// 4) context switch
	if d.Index != s.running {
		if s.running >= 0 {
			prev := &s.tasks[s.running]
			if prev.Remaining > 0 {
				prev.State = StateReady
				s.emit(StatusPreempt, prev)
			}
		}
		if d.Index >= 0 {
			next := &s.tasks[d.Index]
			if next.StartTick == -1 {
				next.StartTick = s.tick
				next.Response = next.StartTick - next.Arrival
			}
			next.State = StateRunning
			s.emit(StatusDispatch, next)
		}
		s.running = d.Index
	}

	// 5) execute one tick of work
	if s.running >= 0 {
		cur := &s.tasks[s.running]
		cur.Remaining--
		if s.alg == RoundRobin {
			cur.QuantumLeft--
		}
		s.timeline.Record(cur.ID, s.tick, cur.Color)

		// 6) completion
		if cur.Remaining == 0 {
			cur.State = StateTerminated
			cur.Completion = s.tick + 1
			cur.Turnaround = cur.Completion - cur.Arrival
			cur.Waiting = cur.Turnaround - cur.Burst
			s.emit(StatusFinish, cur)
			s.running = -1
		}
	} else {
		s.emit(StatusIdle, nil)
	}

	// 7) advance the clock
	s.tick++
	return nil
}

// StepN executes up to n ticks, stopping early at completion.
// It returns the number of ticks executed.
func (s *Scheduler) StepN(n int) int {
	done := 0
	for ; done < n; done++ {
		if err := s.Step(); err != nil {
			break
		}
	}
	return done
}

// Run executes ticks until every task has terminated.
func (s *Scheduler) Run() {
	for !s.IsComplete() {
		_ = s.Step()
	}
	s.logger.Debug("run complete", "total_ticks", s.tick)
}

// Play runs to completion at the pace of clock, stopping early when ctx ends.
func (s *Scheduler) Play(ctx context.Context, clock *TickClock) error {
	return clock.Drive(ctx, func() (bool, error) {
		if err := s.Step(); err != nil {
			return false, err
		}
		return s.IsComplete(), nil
	})
}

// RewindTo restores the state captured before tick target, or the nearest
// earlier retained snapshot, and returns the tick actually restored.
// On failure the state is unchanged.
func (s *Scheduler) RewindTo(target int) (int, error) {
	switch {
	case target > s.tick:
		return s.tick, fmt.Errorf("%w: target %d, current %d", ErrRewindAhead, target, s.tick)
	case target == s.tick:
		return s.tick, nil
	}

	snap, err := s.history.Restore(target)
	if err != nil {
		return s.tick, err
	}

	s.tick = snap.Tick
	s.tasks = snap.Tasks
	s.timeline = Timeline{slices: snap.Timeline}
	s.running = -1
	if snap.Running != NoTask {
		s.running = s.index[snap.Running]
	}

	s.logger.Debug("rewound", "target", target, "tick", s.tick)
	s.emit(StatusRewind, nil)
	return s.tick, nil
}

// snapshot captures a deep copy of the live state.
func (s *Scheduler) snapshot() Snapshot {
	return Snapshot{
		Tick:     s.tick,
		Tasks:    slices.Clone(s.tasks),
		Running:  s.runningID(),
		Timeline: s.timeline.Slices(),
	}
}

func (s *Scheduler) runningID() TaskID {
	if s.running < 0 {
		return NoTask
	}
	return s.tasks[s.running].ID
}

// StateView is a read-only copy of the engine state at a tick boundary.
type StateView struct {
	Tick     int
	Running  TaskID
	Tasks    []TCB
	Complete bool
}

// State returns a copy of the current state.
func (s *Scheduler) State() StateView {
	return StateView{
		Tick:     s.tick,
		Running:  s.runningID(),
		Tasks:    slices.Clone(s.tasks),
		Complete: s.IsComplete(),
	}
}

// Timeline returns a copy of the execution record so far.
func (s *Scheduler) Timeline() []Slice { return s.timeline.Slices() }

// Results returns per-task metrics in input order.
func (s *Scheduler) Results() []Result {
	out := make([]Result, len(s.tasks))
	for i := range s.tasks {
		out[i] = s.tasks[i].result()
	}
	return out
}

func (s *Scheduler) emit(kind StatusKind, t *TCB) {
	ev := StatusEvent{Tick: s.tick, Kind: kind, TaskID: NoTask}
	if t != nil {
		ev.TaskID = t.ID
		ev.Remaining = t.Remaining
	}
	if kind != StatusIdle {
		s.logger.Debug("event", "tick", ev.Tick, "kind", kind.String(), "task_id", int(ev.TaskID), "remaining", ev.Remaining)
	}
	for _, fn := range s.observers {
		fn(ev)
	}
}
