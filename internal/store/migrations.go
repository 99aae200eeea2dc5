package store

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for the run archive.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id               TEXT PRIMARY KEY,
		source           TEXT NOT NULL DEFAULT '',
		algorithm        TEXT NOT NULL,
		quantum          INTEGER NOT NULL DEFAULT 0,
		total_time       INTEGER NOT NULL,
		task_count       INTEGER NOT NULL,
		avg_turnaround   REAL NOT NULL,
		avg_waiting      REAL NOT NULL,
		avg_response     REAL NOT NULL,
		utilization      REAL NOT NULL,
		context_switches INTEGER NOT NULL,
		results          TEXT NOT NULL DEFAULT '[]',
		timeline         TEXT NOT NULL DEFAULT '[]',
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
}

// alterStatements are column additions for archives created by older builds.
// SQLite has no ADD COLUMN IF NOT EXISTS, so each is checked first.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
}{
	{
		table:    "runs",
		column:   "makespan",
		alterSQL: "ALTER TABLE runs ADD COLUMN makespan INTEGER NOT NULL DEFAULT 0",
	},
}

// migrate executes all schema DDL statements followed by the column additions.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
	}
	return nil
}

func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, column) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = db.ExecContext(ctx, alterSQL)
	return err
}
