package console

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticksched/internal/sched"
)

func session(t *testing.T, opts sched.Options, script string, tasks ...sched.Task) (*sched.Scheduler, string, error) {
	t.Helper()
	s, err := sched.New(tasks, opts)
	require.NoError(t, err)

	var out strings.Builder
	c := &Console{Scheduler: s, In: strings.NewReader(script), Out: &out}
	err = c.Run(context.Background())
	return s, out.String(), err
}

var pair = []sched.Task{
	{ID: 0, Arrival: 0, Burst: 3},
	{ID: 1, Arrival: 1, Burst: 2},
}

func TestStepInspectRewind(t *testing.T) {
	s, out, err := session(t, sched.Options{Algorithm: sched.FIFO}, "s\nn 2\ni\nb\ng 0\ng 4\nq\n", pair...)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Tick())
	for _, want := range []string{
		"tick 1: running T0 (remaining 2)\n",
		"tick 3: idle\n",
		"Tick 3, running idle\n",
		"TERMINATED",
		"tick 2: running T0 (remaining 1)\n",
		"tick 0: idle\n",
		"tick 4: running T1 (remaining 1)\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestContinueRunsToEnd(t *testing.T) {
	s, out, err := session(t, sched.Options{Algorithm: sched.FIFO}, "c\ns\n", pair...)
	require.NoError(t, err)
	assert.True(t, s.IsComplete())
	assert.Equal(t, 5, s.Tick())
	assert.Contains(t, out, "tick 5: simulation complete\n")
}

func TestEndOfInputQuits(t *testing.T) {
	s, _, err := session(t, sched.Options{Algorithm: sched.FIFO}, "", pair...)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Tick())
}

func TestBadCommands(t *testing.T) {
	s, out, err := session(t, sched.Options{Algorithm: sched.FIFO}, "n x\ng -1\nfoo\nb\n", pair...)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Tick())
	assert.Contains(t, out, "usage: n N")
	assert.Contains(t, out, "usage: g T")
	assert.Contains(t, out, `unknown command "foo"`)
	assert.Contains(t, out, "already at tick 0")
}

func TestRewindPastHistoryKeepsState(t *testing.T) {
	opts := sched.Options{Algorithm: sched.FIFO, HistoryLimit: 2}
	s, out, err := session(t, opts, "n 5\ng 0\n", sched.Task{ID: 0, Arrival: 0, Burst: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Tick())
	assert.Contains(t, out, "cannot rewind to tick 0: oldest retained snapshot is tick 3")
}

func TestStepAfterCompletion(t *testing.T) {
	s, out, err := session(t, sched.Options{Algorithm: sched.FIFO}, "n 10\ns\n", pair...)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Tick())
	assert.Contains(t, out, "simulation complete; rewind with b or g")
}

func TestCancelledContext(t *testing.T) {
	s, err := sched.New(pair, sched.Options{Algorithm: sched.FIFO})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Console{Scheduler: s, In: strings.NewReader("s\n"), Out: &strings.Builder{}}
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	assert.Equal(t, 0, s.Tick())
}
