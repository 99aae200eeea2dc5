package sched

import "errors"

var (
	ErrNoTasks        = errors.New("no tasks")
	ErrDuplicateTask  = errors.New("duplicate task id")
	ErrInvalidTask    = errors.New("invalid task")
	ErrInvalidQuantum = errors.New("quantum must be positive for round-robin")

	// ErrNoHistory is returned when a rewind target predates the retained snapshots.
	ErrNoHistory = errors.New("no history for requested tick")
	// ErrRewindAhead is returned when a rewind target lies in the future.
	ErrRewindAhead = errors.New("rewind target is ahead of the current tick")
	// ErrComplete is returned when stepping a finished simulation.
	ErrComplete = errors.New("simulation complete")
)
