package workload

import (
	"fmt"
	"slices"
	"strings"

	"ticksched/internal/sched"
)

var examples = map[string]func() *Workload{
	"simple":  simpleExample,
	"medium":  mediumExample,
	"complex": complexExample,
}

// ExampleNames lists the built-in example workloads in sorted order.
func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Example returns a fresh copy of the named built-in workload.
func Example(name string) (*Workload, error) {
	gen, ok := examples[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown example %q (want one of %s)", name, strings.Join(ExampleNames(), ", "))
	}
	return gen(), nil
}

func newWorkload(alg sched.Algorithm, quantum int, tasks ...sched.Task) *Workload {
	wl := &Workload{
		AlgorithmName: alg.String(),
		Algorithm:     alg,
		Quantum:       quantum,
		Alpha:         DefaultAlpha,
	}
	for _, t := range tasks {
		wl.Tasks = append(wl.Tasks, TaskSpec{Task: t})
	}
	return wl
}

func simpleExample() *Workload {
	return newWorkload(sched.FIFO, 10,
		sched.Task{ID: 0, Color: "#FF0000", Arrival: 0, Burst: 10, Priority: 1},
		sched.Task{ID: 1, Color: "#00FF00", Arrival: 2, Burst: 8, Priority: 2},
		sched.Task{ID: 2, Color: "#0000FF", Arrival: 4, Burst: 6, Priority: 3},
	)
}

func mediumExample() *Workload {
	return newWorkload(sched.SRTF, 10,
		sched.Task{ID: 0, Color: "#FF0000", Arrival: 0, Burst: 20, Priority: 1},
		sched.Task{ID: 1, Color: "#00FF00", Arrival: 5, Burst: 10, Priority: 2},
		sched.Task{ID: 2, Color: "#0000FF", Arrival: 10, Burst: 15, Priority: 1},
		sched.Task{ID: 3, Color: "#FFFF00", Arrival: 15, Burst: 5, Priority: 3},
		sched.Task{ID: 4, Color: "#FF00FF", Arrival: 20, Burst: 8, Priority: 2},
	)
}

func complexExample() *Workload {
	tasks := make([]sched.Task, 8)
	for i := range tasks {
		tasks[i] = sched.Task{
			ID:       sched.TaskID(i),
			Color:    fmt.Sprintf("#%02X%02X%02X", (i*31)%256, (i*47)%256, (i*67)%256),
			Arrival:  i * 3,
			Burst:    5 + (i*7)%15,
			Priority: i%3 + 1,
		}
	}
	return newWorkload(sched.Priority, 5, tasks...)
}
