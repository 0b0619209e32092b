package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status is the outcome of a build.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusWarnings  Status = "warnings"
	StatusFailed    Status = "failed"
)

// timeLayout is fixed width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded build.
type Run struct {
	ID         int64
	RunID      string
	Status     Status
	Cutoff     string
	StartedAt  time.Time
	FinishedAt time.Time
	Comics     int
	Pages      int
	Appended   int
	Warnings   int
	// Newest is the YYYY-MM-DD date of the newest published comic.
	Newest       string
	ErrorMessage string
}

// Duration returns how long the build took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record inserts run and returns its row ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if run.RunID == "" {
		return 0, errors.New("record build: run id is required")
	}
	if run.Status == "" {
		run.Status = StatusSucceeded
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO builds (
            run_id, status, cutoff, started_at, finished_at,
            comics, pages, appended, warnings, newest, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		string(run.Status),
		nullableString(run.Cutoff),
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Comics,
		run.Pages,
		run.Appended,
		run.Warnings,
		nullableString(run.Newest),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return 0, fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns up to limit builds, most recent first. A limit of zero or less
// returns every build.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, run_id, status, cutoff, started_at, finished_at,
        comics, pages, appended, warnings, newest, error_message
        FROM builds ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes all but the keep most recent builds. A keep of zero or less
// disables pruning.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.execWithRetry(ctx,
		`DELETE FROM builds WHERE id NOT IN (
            SELECT id FROM builds ORDER BY started_at DESC, id DESC LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune builds: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                   Run
		status                string
		cutoff, newest, msg   sql.NullString
		startedAt, finishedAt string
	)
	if err := row.Scan(
		&run.ID, &run.RunID, &status, &cutoff, &startedAt, &finishedAt,
		&run.Comics, &run.Pages, &run.Appended, &run.Warnings, &newest, &msg,
	); err != nil {
		return Run{}, fmt.Errorf("scan build: %w", err)
	}
	run.Status = Status(status)
	run.Cutoff = cutoff.String
	run.Newest = newest.String
	run.ErrorMessage = msg.String
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt)
	return run, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, value); err != nil {
			return time.Time{}
		}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
