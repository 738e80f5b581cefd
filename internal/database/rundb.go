package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/spngbench/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "spngbench.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores benchmark runs.
type RunDB struct {
	db *sql.DB

	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run database in dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run generate first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

func (rdb *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suite_dir TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		codec TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		timed_out INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		steps TEXT,
		total INTEGER NOT NULL DEFAULT 0,
		identical INTEGER NOT NULL DEFAULT 0,
		mismatched INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		exif_dropped INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- One row per image; position keeps collection order.
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		dimensions_match INTEGER NOT NULL DEFAULT 0,
		mismatched_pixels INTEGER NOT NULL DEFAULT 0,
		original_digest TEXT,
		encoded_digest TEXT,
		original_exif INTEGER NOT NULL DEFAULT 0,
		encoded_exif INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_run ON comparisons(run_id);
	CREATE INDEX IF NOT EXISTS idx_comparisons_name ON comparisons(name);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores run and its comparisons in one transaction and returns
// the new run ID.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	stepsJSON, err := json.Marshal(run.PerformedSteps)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize steps: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	summary := run.Summary()
	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (suite_dir, output_dir, codec, started_at, duration_ns, timed_out, error, steps,
		total, identical, mismatched, failed, exif_dropped)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.SuiteDir,
		run.OutputDir,
		run.Codec,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(run.Duration),
		run.TimedOut,
		run.ErrorMessage,
		string(stepsJSON),
		summary.Total,
		summary.Identical,
		summary.Mismatched,
		summary.Failed,
		summary.ExifDropped,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO comparisons (run_id, position, name, width, height, dimensions_match, mismatched_pixels,
		original_digest, encoded_digest, original_exif, encoded_exif, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare comparison insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range run.Comparisons {
		if _, err := stmt.ExecContext(ctx,
			runID,
			i,
			c.Name,
			c.Width,
			c.Height,
			c.DimensionsMatch,
			c.MismatchedPixels,
			c.OriginalDigest,
			c.EncodedDigest,
			c.OriginalExif,
			c.EncodedExif,
			c.Error,
		); err != nil {
			return 0, fmt.Errorf("failed to save comparison %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `id, suite_dir, output_dir, codec, started_at, duration_ns, timed_out,
	COALESCE(error, ''), COALESCE(steps, ''), total, identical, mismatched, failed, exif_dropped`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRecord(row rowScanner) (*model.RunRecord, error) {
	var (
		rec       model.RunRecord
		startedAt string
		duration  int64
		steps     string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.SuiteDir,
		&rec.OutputDir,
		&rec.Codec,
		&startedAt,
		&duration,
		&rec.TimedOut,
		&rec.ErrorMessage,
		&steps,
		&rec.Summary.Total,
		&rec.Summary.Identical,
		&rec.Summary.Mismatched,
		&rec.Summary.Failed,
		&rec.Summary.ExifDropped,
	); err != nil {
		return nil, err
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.Duration = time.Duration(duration)
	if steps != "" && steps != "null" {
		if err := json.Unmarshal([]byte(steps), &rec.PerformedSteps); err != nil {
			return nil, fmt.Errorf("failed to parse steps: %w", err)
		}
	}
	return &rec, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := make([]model.RunRecord, 0)
	for rows.Next() {
		rec, err := scanRunRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetRun loads a run with its comparisons.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	row := rdb.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRunRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run := &model.Run{
		ID:             rec.ID,
		SuiteDir:       rec.SuiteDir,
		OutputDir:      rec.OutputDir,
		Codec:          rec.Codec,
		StartedAt:      rec.StartedAt,
		Duration:       rec.Duration,
		TimedOut:       rec.TimedOut,
		ErrorMessage:   rec.ErrorMessage,
		PerformedSteps: rec.PerformedSteps,
		Names:          make([]string, 0),
		Comparisons:    make([]model.Comparison, 0),
	}

	rows, err := rdb.db.QueryContext(ctx, `
	SELECT name, width, height, dimensions_match, mismatched_pixels,
		COALESCE(original_digest, ''), COALESCE(encoded_digest, ''),
		original_exif, encoded_exif, COALESCE(error, '')
	FROM comparisons
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparisons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Comparison
		if err := rows.Scan(
			&c.Name,
			&c.Width,
			&c.Height,
			&c.DimensionsMatch,
			&c.MismatchedPixels,
			&c.OriginalDigest,
			&c.EncodedDigest,
			&c.OriginalExif,
			&c.EncodedExif,
			&c.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		run.Names = append(run.Names, c.Name)
		run.Comparisons = append(run.Comparisons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return run, nil
}

// LatestRunIDs returns up to n run IDs, newest first.
func (rdb *RunDB) LatestRunIDs(ctx context.Context, n int) ([]int64, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list run IDs: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, n)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// timestampFormats are the layouts parseTimestamp accepts, most specific first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time when
// no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
