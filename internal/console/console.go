// Package console implements the line-oriented step/rewind debugger that
// drives a Scheduler interactively.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"ticksched/internal/logging"
	"ticksched/internal/render"
	"ticksched/internal/sched"
)

const help = `commands:
  <enter>, s   step one tick
  n N          step N ticks
  b            back one tick
  g T          go to tick T (rewinds or steps as needed)
  i            inspect task states
  c            continue to the end and leave
  h            this help
  q            quit
`

// Console reads commands from In and reports on Out.
type Console struct {
	Scheduler *sched.Scheduler
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
}

// Run processes commands until q, c, end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	fmt.Fprint(c.Out, help)
	sc := bufio.NewScanner(c.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "[%d]> ", c.Scheduler.Tick())
		if !sc.Scan() {
			fmt.Fprintln(c.Out)
			return sc.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)
		logger.Debug("console command", "cmd", cmd, "arg", arg, "tick", c.Scheduler.Tick())

		switch cmd {
		case "", "s":
			c.step(1)
		case "n":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				fmt.Fprintln(c.Out, "usage: n N (N > 0)")
				continue
			}
			c.step(n)
		case "b":
			c.rewind(c.Scheduler.Tick() - 1)
		case "g":
			target, err := strconv.Atoi(arg)
			if err != nil || target < 0 {
				fmt.Fprintln(c.Out, "usage: g T (T >= 0)")
				continue
			}
			c.goTo(target)
		case "i":
			render.StateTable(c.Out, c.Scheduler.State())
		case "c":
			c.Scheduler.Run()
			c.status()
			return nil
		case "h", "?":
			fmt.Fprint(c.Out, help)
		case "q":
			return nil
		default:
			fmt.Fprintf(c.Out, "unknown command %q\n", cmd)
			fmt.Fprint(c.Out, help)
		}
	}
}

func (c *Console) step(n int) {
	if c.Scheduler.IsComplete() {
		fmt.Fprintln(c.Out, "simulation complete; rewind with b or g")
		return
	}
	c.Scheduler.StepN(n)
	c.status()
}

func (c *Console) goTo(target int) {
	switch tick := c.Scheduler.Tick(); {
	case target < tick:
		c.rewind(target)
	case target > tick:
		c.step(target - tick)
	default:
		c.status()
	}
}

func (c *Console) rewind(target int) {
	if target < 0 {
		fmt.Fprintln(c.Out, "already at tick 0")
		return
	}
	got, err := c.Scheduler.RewindTo(target)
	switch {
	case errors.Is(err, sched.ErrNoHistory):
		oldest, _, _ := c.Scheduler.History().Bounds()
		fmt.Fprintf(c.Out, "cannot rewind to tick %d: oldest retained snapshot is tick %d\n", target, oldest)
		return
	case err != nil:
		fmt.Fprintf(c.Out, "cannot rewind to tick %d: %v\n", target, err)
		return
	}
	if got != target {
		fmt.Fprintf(c.Out, "no snapshot for tick %d, restored tick %d\n", target, got)
	}
	c.status()
}

// status prints the one-line summary shown after every state change.
func (c *Console) status() {
	view := c.Scheduler.State()
	switch {
	case view.Complete:
		fmt.Fprintf(c.Out, "tick %d: simulation complete\n", view.Tick)
	case view.Running == sched.NoTask:
		fmt.Fprintf(c.Out, "tick %d: idle\n", view.Tick)
	default:
		for _, t := range view.Tasks {
			if t.ID == view.Running {
				fmt.Fprintf(c.Out, "tick %d: running T%d (remaining %d)\n", view.Tick, t.ID, t.Remaining)
				break
			}
		}
	}
}
