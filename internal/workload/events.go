package workload

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind identifies a per-task event token. Events are parsed and kept
// for round-tripping only; the scheduler does not act on them.
type EventKind int

const (
	MutexLock   EventKind = iota // MLxx:t
	MutexUnlock                  // MUxx:t
	IOStart                      // IO:t-d
)

func (k EventKind) String() string {
	switch k {
	case MutexLock:
		return "ML"
	case MutexUnlock:
		return "MU"
	case IOStart:
		return "IO"
	default:
		return "??"
	}
}

// Event is a reserved task event. For mutex events Param is the mutex id;
// for I/O it is the duration.
type Event struct {
	Kind  EventKind
	Time  int
	Param int
}

func (e Event) String() string {
	if e.Kind == IOStart {
		return fmt.Sprintf("IO:%d-%d", e.Time, e.Param)
	}
	return fmt.Sprintf("%s%02d:%d", e.Kind, e.Param, e.Time)
}

// ParseEvents parses a comma-separated event list. Unrecognised tokens are
// skipped and reported as warnings.
func ParseEvents(s string) ([]Event, []string) {
	var (
		events   []Event
		warnings []string
	)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ev, err := parseEvent(tok)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring event %q: %v", tok, err))
			continue
		}
		events = append(events, ev)
	}
	return events, warnings
}

func parseEvent(tok string) (Event, error) {
	if rest, ok := strings.CutPrefix(tok, "IO:"); ok {
		start, dur, found := strings.Cut(rest, "-")
		if !found {
			return Event{}, fmt.Errorf("want IO:time-duration")
		}
		t, err := atoiNonNegative(start)
		if err != nil {
			return Event{}, err
		}
		d, err := atoiNonNegative(dur)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: IOStart, Time: t, Param: d}, nil
	}

	var kind EventKind
	switch {
	case strings.HasPrefix(tok, "ML"):
		kind = MutexLock
	case strings.HasPrefix(tok, "MU"):
		kind = MutexUnlock
	default:
		return Event{}, fmt.Errorf("unknown event type")
	}

	id, at, found := strings.Cut(tok[2:], ":")
	if !found {
		return Event{}, fmt.Errorf("want %sid:time", kind)
	}
	m, err := atoiNonNegative(id)
	if err != nil {
		return Event{}, err
	}
	t, err := atoiNonNegative(at)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Time: t, Param: m}, nil
}

func atoiNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

// FormatEvents renders events in the form accepted by ParseEvents.
func FormatEvents(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}
