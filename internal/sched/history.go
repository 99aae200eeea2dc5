// internal/sched/history.go

package sched

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// DefaultHistoryLimit bounds the number of retained snapshots.
const DefaultHistoryLimit = 10000

// Snapshot is a full, independent copy of engine state taken before the
// mutation of tick Tick.
type Snapshot struct {
	Tick     int
	Tasks    []TCB
	Running  TaskID
	Timeline []Slice
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Tick:     s.Tick,
		Tasks:    slices.Clone(s.Tasks),
		Running:  s.Running,
		Timeline: slices.Clone(s.Timeline),
	}
}

// History is a bounded undo log of snapshots ordered by tick.
// When full, the oldest snapshot is evicted.
type History struct {
	limit int
	tree  *redblacktree.Tree // tick -> Snapshot
}

// NewHistory creates a history retaining at most limit snapshots.
// A non-positive limit selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		limit: limit,
		tree:  redblacktree.NewWithIntComparator(),
	}
}

// Limit returns the retention window size.
func (h *History) Limit() int { return h.limit }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return h.tree.Size() }

// Save stores snap, taking ownership of its slices. A snapshot for an
// already-retained tick replaces it.
func (h *History) Save(snap Snapshot) {
	if _, found := h.tree.Get(snap.Tick); !found && h.tree.Size() >= h.limit {
		if oldest := h.tree.Left(); oldest != nil {
			h.tree.Remove(oldest.Key)
		}
	}
	h.tree.Put(snap.Tick, snap)
}

// Restore returns a copy of the latest snapshot taken at or before target and
// discards every snapshot after it. History is left untouched on failure.
func (h *History) Restore(target int) (Snapshot, error) {
	node, found := h.tree.Floor(target)
	if !found {
		return Snapshot{}, fmt.Errorf("%w: tick %d", ErrNoHistory, target)
	}
	snap := node.Value.(Snapshot)
	h.truncateAfter(snap.Tick)
	return snap.clone(), nil
}

// truncateAfter drops every snapshot newer than tick.
func (h *History) truncateAfter(tick int) {
	for {
		newest := h.tree.Right()
		if newest == nil || newest.Key.(int) <= tick {
			return
		}
		h.tree.Remove(newest.Key)
	}
}

// Bounds returns the oldest and newest retained ticks.
func (h *History) Bounds() (oldest, newest int, ok bool) {
	if h.tree.Empty() {
		return 0, 0, false
	}
	return h.tree.Left().Key.(int), h.tree.Right().Key.(int), true
}

// Clear drops all snapshots.
func (h *History) Clear() { h.tree.Clear() }
