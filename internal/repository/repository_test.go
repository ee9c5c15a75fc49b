package repository

import (
	"path/filepath"
	"testing"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupMockDB creates a new sqlx.DB instance backed by sqlmock.
// The "sqlmock" driver has no bind type, so '?' placeholders pass through unchanged.
func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// setupSQLiteDB opens a migrated SQLite store in a temp dir.
func setupSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := &config.Config{DB: config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "repo.db"),
	}}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db.DB, config.DriverSQLite, database.Up))
	t.Cleanup(func() { db.Close() })
	return db
}
