// Package store archives finished simulation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ticksched/internal/sched"
	"ticksched/internal/stats"
)

// ErrNotFound is returned when no run matches an id.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned when an id prefix matches more than one run.
var ErrAmbiguous = errors.New("run id prefix is ambiguous")

// Run is one archived simulation.
type Run struct {
	ID        string
	Source    string // config path or example name
	Algorithm string
	Quantum   int
	TotalTime int
	TaskCount int

	AvgTurnaround   float64
	AvgWaiting      float64
	AvgResponse     float64
	Utilization     float64
	ContextSwitches int
	Makespan        int

	Results  []sched.Result
	Timeline []sched.Slice

	CreatedAt time.Time
}

// NewRun builds an archive record with a fresh id.
func NewRun(source string, quantum int, sum stats.Summary, results []sched.Result, timeline []sched.Slice) *Run {
	return &Run{
		ID:              "run_" + uuid.New().String(),
		Source:          source,
		Algorithm:       sum.Algorithm.String(),
		Quantum:         quantum,
		TotalTime:       sum.TotalTime,
		TaskCount:       sum.Tasks,
		AvgTurnaround:   sum.AvgTurnaround,
		AvgWaiting:      sum.AvgWaiting,
		AvgResponse:     sum.AvgResponse,
		Utilization:     sum.Utilization,
		ContextSwitches: sum.ContextSwitches,
		Makespan:        sum.Makespan,
		Results:         results,
		Timeline:        timeline,
		CreatedAt:       time.Now().UTC(),
	}
}

// SQLiteStore is the run archive.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) a SQLite database at path.
// Use ":memory:" for an in-memory archive (useful in tests).
func Open(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// SaveRun inserts run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	timelineJSON, err := json.Marshal(run.Timeline)
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, algorithm, quantum, total_time, task_count,
			avg_turnaround, avg_waiting, avg_response, utilization, context_switches, makespan,
			results, timeline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Algorithm, run.Quantum, run.TotalTime, run.TaskCount,
		run.AvgTurnaround, run.AvgWaiting, run.AvgResponse, run.Utilization, run.ContextSwitches, run.Makespan,
		string(resultsJSON), string(timelineJSON), run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

const summaryColumns = `id, source, algorithm, quantum, total_time, task_count,
	avg_turnaround, avg_waiting, avg_response, utilization, context_switches, makespan, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (*Run, error) {
	var run Run
	var createdAt string
	dest := []any{&run.ID, &run.Source, &run.Algorithm, &run.Quantum, &run.TotalTime, &run.TaskCount,
		&run.AvgTurnaround, &run.AvgWaiting, &run.AvgResponse, &run.Utilization, &run.ContextSwitches, &run.Makespan,
		&createdAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &run, nil
}

// GetRun loads a run by id, or by a unique id prefix.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	var ids []string
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, id+"%", id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var got string
		if err := rows.Scan(&got); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, got)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(ids) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case ids[0] != id && len(ids) > 1:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}

	var resultsJSON, timelineJSON string
	run, err := scanSummary(s.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+`, results, timeline FROM runs WHERE id = ?`, ids[0]),
		&resultsJSON, &timelineJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultsJSON), &run.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	if err := json.Unmarshal([]byte(timelineJSON), &run.Timeline); err != nil {
		return nil, fmt.Errorf("unmarshal timeline: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first, without results or timeline.
// A limit <= 0 selects 20.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.logger.Debug("sql", "op", "list", "table", "runs", "limit", limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
