// Package runlog persists the history of dispatched slash commands in the
// shared SQLite database. Every dispatch records what ran, the resolved
// toolchain command line, how it exited and how long it took.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/db"
)

// Record is one dispatched command run.
type Record struct {
	ID         string    `db:"id"`
	Command    string    `db:"command"`    // skill command name, e.g. "flutter-pub"
	Subcommand string    `db:"subcommand"` // e.g. "add", empty if none
	Argv       string    `db:"argv"`       // JSON-encoded toolchain command line
	ExitCode   int       `db:"exit_code"`
	DurationMS int64     `db:"duration_ms"`
	StartedAt  time.Time `db:"started_at"`
}

// ArgvSlice decodes the stored toolchain command line.
func (r Record) ArgvSlice() ([]string, error) {
	var argv []string
	if err := json.Unmarshal([]byte(r.Argv), &argv); err != nil {
		return nil, errors.Wrap(err, "failed to decode argv")
	}
	return argv, nil
}

// Store reads and writes run records.
type Store struct {
	db *sqlx.DB
}

// Open opens the store at the default database path, applying pending
// migrations.
func Open(ctx context.Context) (*Store, error) {
	dbPath, err := db.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(ctx, dbPath)
}

// OpenAt opens the store at an explicit database path.
func OpenAt(ctx context.Context, dbPath string) (*Store, error) {
	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	runner := db.NewMigrationRunner(sqlDB)
	if err := runner.Run(ctx, migrations()); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to migrate run history schema")
	}

	return &Store{db: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts one run record.
func (s *Store) Save(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, subcommand, argv, exit_code, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Command, record.Subcommand, record.Argv,
		record.ExitCode, record.DurationMS, record.StartedAt)
	return errors.Wrap(err, "failed to save run record")
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var record Record
	err := s.db.GetContext(ctx, &record, "SELECT * FROM runs WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load run record")
	}
	return &record, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := "SELECT * FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var records []Record
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list run records")
	}
	return records, nil
}

// Prune deletes records started before the cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", before)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune run records")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count pruned records")
	}
	return deleted, nil
}

// EncodeArgv serializes a toolchain command line for storage.
func EncodeArgv(argv []string) (string, error) {
	encoded, err := json.Marshal(argv)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode argv")
	}
	return string(encoded), nil
}
