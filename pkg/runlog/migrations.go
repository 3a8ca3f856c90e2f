package runlog

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/db"
)

// migrations returns the run history schema migrations in timestamp order.
func migrations() []db.Migration {
	return []db.Migration{
		createRunsTable(),
		addStartedAtIndex(),
	}
}

func createRunsTable() db.Migration {
	return db.Migration{
		Version:     20250301120000,
		Description: "Create runs table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					command TEXT NOT NULL,
					subcommand TEXT NOT NULL DEFAULT '',
					argv TEXT NOT NULL,
					exit_code INTEGER NOT NULL,
					duration_ms INTEGER NOT NULL,
					started_at DATETIME NOT NULL
				)
			`)
			return errors.Wrap(err, "failed to create runs table")
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS runs")
			return err
		},
	}
}

func addStartedAtIndex() db.Migration {
	return db.Migration{
		Version:     20250301120001,
		Description: "Add index on runs.started_at",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)")
			return errors.Wrap(err, "failed to create started_at index")
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP INDEX IF EXISTS idx_runs_started_at")
			return err
		},
	}
}
