package database

import (
	"path/filepath"
	"testing"

	"mocktest-engine/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, stmts)
	assert.Empty(t, SplitStatements("  \n"))
}

func TestRunMigrations_SQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "mocktest.db"),
	}}
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db.DB, config.DriverSQLite, Up))
	// a second run is a no-op
	require.NoError(t, RunMigrations(db.DB, config.DriverSQLite, Up))

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name`))
	assert.Equal(t, []string{
		"attempts", "blueprint_rules", "blueprints", "exam_questions", "exam_sections",
		"exams", "questions", "rank_points", "rank_tables",
	}, tables)

	require.NoError(t, RunMigrations(db.DB, config.DriverSQLite, Down))
	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'attempts'`))
	assert.Equal(t, 0, count)
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	assert.Error(t, RunMigrations(nil, "postgres", Up))
}
