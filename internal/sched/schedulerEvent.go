// internal/sched/schedulerEvent.go

package sched

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusArrive
	StatusDispatch
	StatusPreempt
	StatusFinish
	StatusRewind
)

// StatusEvent is emitted on every lifecycle change and on idle ticks.
type StatusEvent struct {
	Tick      int
	Kind      StatusKind
	TaskID    TaskID
	Remaining int
}

// Observer receives events synchronously, in tick order.
type Observer func(StatusEvent)

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusArrive:
		return "Arrive"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusFinish:
		return "Finish"
	case StatusRewind:
		return "Rewind"
	default:
		return "Unknown"
	}
}
