package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimelineCoalescesAndLooksUp(t *testing.T) {
	var tl Timeline
	tl.Record(1, 0, "#FF0000")
	tl.Record(1, 1, "#FF0000")
	tl.Record(2, 2, "#00FF00")
	tl.Record(1, 4, "#FF0000") // gap at tick 3 starts a new slice

	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, []Slice{
		{TaskID: 1, Start: 0, End: 2, Color: "#FF0000"},
		{TaskID: 2, Start: 2, End: 3, Color: "#00FF00"},
		{TaskID: 1, Start: 4, End: 5, Color: "#FF0000"},
	}, tl.Slices())

	assert.Equal(t, TaskID(1), tl.At(1))
	assert.Equal(t, TaskID(2), tl.At(2))
	assert.Equal(t, NoTask, tl.At(3))
	assert.Equal(t, TaskID(1), tl.At(4))
	assert.Equal(t, NoTask, tl.At(9))

	assert.Equal(t, map[TaskID]int{1: 3, 2: 1}, WorkByTask(tl.Slices()))
}
