package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate brings the workspace schema up to date. The schema version is
// kept in PRAGMA user_version and each pending step runs in its own
// transaction. Workspaces written before versioning replay every step, so
// an ALTER that finds its column already present counts as applied.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		if err := applyMigration(db, i); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, i int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migrations[i]); err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion is the user_version of a fully migrated workspace.
func SchemaVersion() int { return len(migrations) }

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		narrative    TEXT NOT NULL DEFAULT '',
		context_json TEXT NOT NULL,
		active_stage TEXT NOT NULL DEFAULT 'objectives'
		             CHECK(active_stage IN ('objectives','flow','annual','semester')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_updated ON runs(updated_at)`,

	`CREATE TABLE IF NOT EXISTS stage_results (
		run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		stage        TEXT NOT NULL
		             CHECK(stage IN ('objectives','flow','annual','semester')),
		payload_json TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (run_id, stage)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stage_results_run ON stage_results(run_id)`,

	`ALTER TABLE stage_results ADD COLUMN item_count INTEGER NOT NULL DEFAULT 0`,
}
