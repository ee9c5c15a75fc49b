package database

import (
	"fmt"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

func init() {
	// go-ora expects :name placeholders; repositories write '?' and Rebind.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Open connects to the store selected by cfg.DB.Driver.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DB.Driver {
	case config.DriverOracle:
		return NewSQLXOracleDB(cfg.GetDSN())
	case config.DriverSQLite:
		return NewSQLXSQLiteDB(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}
}

func NewSQLXOracleDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(config.DriverOracle, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database")
	return db, nil
}

// NewSQLXSQLiteDB opens a local SQLite store. A single connection keeps writers serialized.
func NewSQLXSQLiteDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	logger.Get().Info("Successfully opened SQLite database", zap.String("dsn", dsn))
	return db, nil
}
