package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Run is one recorded session.
type Run struct {
	ID         int64
	RunID      string
	Documents  int
	ErrorCount int
	StartedAt  string
}

// RunError is one unbound node of a recorded session.
type RunError struct {
	Kind     string
	NodeType string
	NodeName string
	FilePath string
}

// RecordRun stores a session and its errors in one transaction and returns
// the generated run id.
func RecordRun(sqlDB *sql.DB, documents int, errs []RunError) (string, error) {
	runID := uuid.NewString()

	tx, err := sqlDB.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning run record: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (run_id, documents, error_count) VALUES (?, ?, ?)`, runID, documents, len(errs))
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading run id: %w", err)
	}

	for i, e := range errs {
		_, err := tx.Exec(
			`INSERT INTO run_errors (run_id, position, kind, node_type, node_name, file_path) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, e.Kind, e.NodeType, e.NodeName, e.FilePath,
		)
		if err != nil {
			return "", fmt.Errorf("inserting run error %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func ListRuns(sqlDB *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := sqlDB.Query(`
		SELECT id, run_id, documents, error_count, started_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Documents, &r.ErrorCount, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindRun looks a run up by its run id or by a unique prefix of it. The
// prefix is compared literally.
func FindRun(sqlDB *sql.DB, runID string) (Run, error) {
	if runID == "" {
		return Run{}, fmt.Errorf("empty run id")
	}
	rows, err := sqlDB.Query(`
		SELECT id, run_id, documents, error_count, started_at
		FROM runs
		WHERE substr(run_id, 1, length(?)) = ?
		ORDER BY id
	`, runID, runID)
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Documents, &r.ErrorCount, &r.StartedAt); err != nil {
			return Run{}, fmt.Errorf("scanning run: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("run %s not found", runID)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run id %s is ambiguous", runID)
	}
}

// RunErrors returns the errors of a run in discovery order.
func RunErrors(sqlDB *sql.DB, id int64) ([]RunError, error) {
	rows, err := sqlDB.Query(`
		SELECT kind, node_type, node_name, file_path
		FROM run_errors
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run errors: %w", err)
	}
	defer rows.Close()

	var errs []RunError
	for rows.Next() {
		var e RunError
		if err := rows.Scan(&e.Kind, &e.NodeType, &e.NodeName, &e.FilePath); err != nil {
			return nil, fmt.Errorf("scanning run error: %w", err)
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// KindCount is the number of errors of one kind and node type in a run.
type KindCount struct {
	Kind     string
	NodeType string
	Count    int
}

// ErrorCounts groups a run's errors by kind and node type, largest first.
func ErrorCounts(sqlDB *sql.DB, id int64) ([]KindCount, error) {
	rows, err := sqlDB.Query(`
		SELECT kind, node_type, COUNT(*) AS cnt
		FROM run_errors
		WHERE run_id = ?
		GROUP BY kind, node_type
		ORDER BY cnt DESC, kind, node_type
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying error counts: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var c KindCount
		if err := rows.Scan(&c.Kind, &c.NodeType, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning error count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
