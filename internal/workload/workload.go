// Package workload reads and writes the line-oriented simulation configuration:
//
//	algorithm;quantum[;alpha]
//	id;color;arrival;burst;priority;[events]
//
// Blank lines and lines starting with '#' are ignored.
package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ticksched/internal/sched"
)

// DefaultAlpha is the aging factor used when the header omits it.
const DefaultAlpha = 1

// ErrEmpty is returned when the input has no header line.
var ErrEmpty = errors.New("empty configuration")

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// TaskSpec is a task descriptor plus its reserved event list.
type TaskSpec struct {
	sched.Task
	Events []Event
}

// Workload is a parsed configuration file.
type Workload struct {
	AlgorithmName string // as written in the file
	Algorithm     sched.Algorithm
	Quantum       int // 0 when absent
	Alpha         int
	Tasks         []TaskSpec

	// Warnings lists recoverable problems such as an unknown algorithm name.
	Warnings []string
}

// TaskList returns the plain task descriptors in file order.
func (w *Workload) TaskList() []sched.Task {
	out := make([]sched.Task, len(w.Tasks))
	for i, t := range w.Tasks {
		out[i] = t.Task
	}
	return out
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	wl, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wl, nil
}

// Parse reads a configuration from r.
func Parse(r io.Reader) (*Workload, error) {
	sc := bufio.NewScanner(r)
	var (
		wl     *Workload
		lineNo int
		seen   = make(map[sched.TaskID]bool)
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if wl == nil {
			h, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			wl = h
			continue
		}

		spec, warnings, err := parseTask(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		if seen[spec.ID] {
			return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("%w: %d", sched.ErrDuplicateTask, spec.ID)}
		}
		seen[spec.ID] = true
		for _, w := range warnings {
			wl.Warnings = append(wl.Warnings, fmt.Sprintf("line %d: %s", lineNo, w))
		}
		wl.Tasks = append(wl.Tasks, spec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if wl == nil {
		return nil, ErrEmpty
	}
	if len(wl.Tasks) == 0 {
		return nil, fmt.Errorf("%w found in configuration", sched.ErrNoTasks)
	}
	return wl, nil
}

func parseHeader(line string) (*Workload, error) {
	fields := splitFields(line)
	name := fields[0]
	if name == "" {
		return nil, errors.New("missing scheduling algorithm")
	}

	wl := &Workload{AlgorithmName: name, Alpha: DefaultAlpha}

	alg, ok := sched.ParseAlgorithm(name)
	if !ok {
		wl.Warnings = append(wl.Warnings, fmt.Sprintf("unknown algorithm %q, using FIFO", name))
	}
	wl.Algorithm = alg

	if len(fields) > 1 && fields[1] != "" {
		q, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("quantum %q: %w", fields[1], err)
		}
		if q < 0 {
			return nil, fmt.Errorf("quantum %d is negative", q)
		}
		wl.Quantum = q
	}
	if len(fields) > 2 && fields[2] != "" {
		a, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("alpha %q: %w", fields[2], err)
		}
		wl.Alpha = a
	}
	return wl, nil
}

func parseTask(line string) (TaskSpec, []string, error) {
	fields := splitFields(line)
	if len(fields) < 5 {
		return TaskSpec{}, nil, fmt.Errorf("want at least 5 fields (id;color;arrival;burst;priority), got %d", len(fields))
	}

	var nums [4]int
	for i, idx := range []int{0, 2, 3, 4} {
		n, err := strconv.Atoi(fields[idx])
		if err != nil {
			return TaskSpec{}, nil, fmt.Errorf("field %d %q: %w", idx+1, fields[idx], err)
		}
		nums[i] = n
	}

	spec := TaskSpec{Task: sched.Task{
		ID:       sched.TaskID(nums[0]),
		Color:    fields[1],
		Arrival:  nums[1],
		Burst:    nums[2],
		Priority: nums[3],
	}}
	if err := spec.Validate(); err != nil {
		return TaskSpec{}, nil, err
	}

	var warnings []string
	if len(fields) > 5 {
		spec.Events, warnings = ParseEvents(strings.Join(fields[5:], ","))
	}
	return spec, warnings, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ";")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// Format writes w in canonical form. Parsing the output yields the same
// algorithm, quantum, alpha and tasks.
func Format(out io.Writer, w *Workload) error {
	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "%s;%d;%d\n", w.Algorithm, w.Quantum, w.Alpha)
	for _, t := range w.Tasks {
		fmt.Fprintf(bw, "%d;%s;%d;%d;%d;%s\n",
			t.ID, t.Color, t.Arrival, t.Burst, t.Priority, FormatEvents(t.Events))
	}
	return bw.Flush()
}

// String returns the canonical text form.
func (w *Workload) String() string {
	var sb strings.Builder
	_ = Format(&sb, w)
	return sb.String()
}
