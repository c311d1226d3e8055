package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	database, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func userVersion(t *testing.T, database *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, database.QueryRow(`PRAGMA user_version`).Scan(&v))
	return v
}

func mustExec(t *testing.T, database *sql.DB, query string) {
	t.Helper()
	_, err := database.Exec(query)
	require.NoError(t, err, query)
}

func TestMigrate_RecordsSchemaVersion(t *testing.T) {
	database := openMigrated(t)
	assert.Equal(t, SchemaVersion(), userVersion(t, database))

	require.NoError(t, Migrate(database))
	assert.Equal(t, SchemaVersion(), userVersion(t, database))
}

func TestMigrate_UnversionedWorkspace(t *testing.T) {
	database := openMigrated(t)
	mustExec(t, database, `PRAGMA user_version = 0`)

	require.NoError(t, Migrate(database), "replaying onto an existing schema must succeed")
	assert.Equal(t, SchemaVersion(), userVersion(t, database))
}

func TestMigrate_Tables(t *testing.T) {
	database := openMigrated(t)

	rows, err := database.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"runs", "stage_results"}, tables)
}

func TestMigrate_Constraints(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"known stage", `INSERT INTO stage_results (run_id, stage, payload_json, generated_at) VALUES ('r1', 'flow', '[]', 'now')`, true},
		{"unknown stage", `INSERT INTO stage_results (run_id, stage, payload_json, generated_at) VALUES ('r1', 'lesson_plan', '[]', 'now')`, false},
		{"orphan result", `INSERT INTO stage_results (run_id, stage, payload_json, generated_at) VALUES ('r9', 'flow', '[]', 'now')`, false},
		{"unknown active stage", `UPDATE runs SET active_stage = 'rpp' WHERE id = 'r1'`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := openMigrated(t)
			mustExec(t, database, `INSERT INTO runs (id, context_json, created_at, updated_at) VALUES ('r1', '{}', 'now', 'now')`)

			_, err := database.Exec(tt.query)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMigrate_DeletingRunCascades(t *testing.T) {
	database := openMigrated(t)
	mustExec(t, database, `INSERT INTO runs (id, context_json, created_at, updated_at) VALUES ('r1', '{}', 'now', 'now')`)
	mustExec(t, database, `INSERT INTO stage_results (run_id, stage, payload_json, generated_at, item_count) VALUES ('r1', 'objectives', '[]', 'now', 0)`)
	mustExec(t, database, `DELETE FROM runs WHERE id = 'r1'`)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM stage_results`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpenDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kurikula.db")
	database, err := OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	assert.FileExists(t, path)

	pragmas := map[string]any{
		"journal_mode": "wal",
		"foreign_keys": int64(1),
		"busy_timeout": int64(5000),
	}
	for name, want := range pragmas {
		var got any
		require.NoError(t, database.QueryRow(`PRAGMA `+name).Scan(&got), name)
		assert.EqualValues(t, want, got, name)
	}
}
