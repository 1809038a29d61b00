// Package recorder persists cycle snapshots to SQLite for offline analysis.
package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var (
	_ ports.CycleRecorder = (*SQLite)(nil)
	_ ports.CycleHistory  = (*SQLite)(nil)
	_ ports.HealthChecker = (*SQLite)(nil)
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLite records one row per cycle and one row per level report.
type SQLite struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("recorder: create data dir: %w", err)
		}
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open database: %w", err)
	}
	// The control loop is the only writer.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("recorder: pragma %q: %w", p, err)
		}
	}

	r := &SQLite{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recorder: migrate: %w", err)
	}
	return r, nil
}

func (r *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cycles (
			cycle       INTEGER PRIMARY KEY,
			recorded_at TEXT    NOT NULL,
			duration_ns INTEGER NOT NULL,
			state       TEXT    NOT NULL,
			command     TEXT    NOT NULL,
			fallback    INTEGER NOT NULL DEFAULT 0,
			error       TEXT    NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS levels (
			cycle      INTEGER NOT NULL REFERENCES cycles(cycle) ON DELETE CASCADE,
			level      INTEGER NOT NULL,
			task_id    TEXT    NOT NULL,
			rows       INTEGER NOT NULL,
			status     TEXT    NOT NULL,
			iterations INTEGER NOT NULL,
			objective  REAL    NOT NULL,
			active     INTEGER NOT NULL,
			PRIMARY KEY (cycle, level)
		);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Record stores s. Recording the same cycle twice replaces it.
func (r *SQLite) Record(ctx context.Context, s domain.Snapshot) error {
	state, err := json.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("recorder: encode state: %w", err)
	}
	command, err := json.Marshal(s.Command)
	if err != nil {
		return fmt.Errorf("recorder: encode command: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recorder: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM levels WHERE cycle = ?`, s.Cycle); err != nil {
		return fmt.Errorf("recorder: clear levels of cycle %d: %w", s.Cycle, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO cycles (cycle, recorded_at, duration_ns, state, command, fallback, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Cycle, s.Time.UTC().Format(time.RFC3339Nano), s.Duration.Nanoseconds(),
		string(state), string(command), s.Fallback, s.Error,
	); err != nil {
		return fmt.Errorf("recorder: insert cycle %d: %w", s.Cycle, err)
	}
	for _, l := range s.Levels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO levels (cycle, level, task_id, rows, status, iterations, objective, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Cycle, l.Level, l.TaskID, l.Rows, l.Status.String(), l.Iterations, l.Objective, l.Active,
		); err != nil {
			return fmt.Errorf("recorder: insert level %d of cycle %d: %w", l.Level, s.Cycle, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recorder: commit cycle %d: %w", s.Cycle, err)
	}
	return nil
}

// Recent returns up to limit snapshots, newest first.
func (r *SQLite) Recent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		return nil, &domain.ValidationError{Fields: map[string]string{"limit": "must be positive"}}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT cycle, recorded_at, duration_ns, state, command, fallback, error
		 FROM cycles ORDER BY cycle DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recorder: query cycles: %w", err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var (
			s              domain.Snapshot
			at             string
			durNS          int64
			state, command string
		)
		if err := rows.Scan(&s.Cycle, &at, &durNS, &state, &command, &s.Fallback, &s.Error); err != nil {
			return nil, fmt.Errorf("recorder: scan cycle: %w", err)
		}
		if s.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("recorder: cycle %d time: %w", s.Cycle, err)
		}
		s.Duration = time.Duration(durNS)
		if err := json.Unmarshal([]byte(state), &s.State); err != nil {
			return nil, fmt.Errorf("recorder: cycle %d state: %w", s.Cycle, err)
		}
		if err := json.Unmarshal([]byte(command), &s.Command); err != nil {
			return nil, fmt.Errorf("recorder: cycle %d command: %w", s.Cycle, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorder: iterate cycles: %w", err)
	}

	for i := range out {
		if out[i].Levels, err = r.levels(ctx, out[i].Cycle); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLite) levels(ctx context.Context, cycle uint64) ([]domain.LevelReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT level, task_id, rows, status, iterations, objective, active
		 FROM levels WHERE cycle = ? ORDER BY level`, cycle)
	if err != nil {
		return nil, fmt.Errorf("recorder: query levels of cycle %d: %w", cycle, err)
	}
	defer rows.Close()

	var out []domain.LevelReport
	for rows.Next() {
		var (
			l      domain.LevelReport
			status string
		)
		if err := rows.Scan(&l.Level, &l.TaskID, &l.Rows, &status, &l.Iterations, &l.Objective, &l.Active); err != nil {
			return nil, fmt.Errorf("recorder: scan level: %w", err)
		}
		l.Status = domain.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

// Name identifies the recorder in health reports.
func (r *SQLite) Name() string { return "recorder" }

// HealthCheck pings the database.
func (r *SQLite) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("recorder: %w: %w", domain.ErrUnavailable, err)
	}
	return nil
}

// Close closes the database. It is safe to call more than once.
func (r *SQLite) Close() error {
	err := r.db.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}
