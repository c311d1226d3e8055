// Package db opens the kurikula workspace database and migrates its schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a workspace that disappears when the process exits.
const MemoryPath = ":memory:"

// OpenDB opens the workspace at path, applies the connection pragmas and
// runs migrations. Missing parent directories are created.
//
// The pool is capped at one connection: pragmas are per connection, and an
// in-memory database exists only on the connection that created it.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	database.SetMaxOpenConns(1)

	pragmas := []string{"foreign_keys = ON", "busy_timeout = 5000"}
	if !memory {
		pragmas = append(pragmas, "journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := database.Exec("PRAGMA " + p); err != nil {
			database.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database, nil
}
