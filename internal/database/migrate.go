package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

// Direction selects which half of the migration files to apply.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies the embedded schema for the given driver.
func RunMigrations(db *sql.DB, driver string, dir Direction) error {
	switch driver {
	case config.DriverSQLite:
		return runSQLiteMigrations(db, dir)
	case config.DriverOracle:
		return runOracleMigrations(db, dir)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func runSQLiteMigrations(db *sql.DB, dir Direction) error {
	src, err := iofs.New(migrationFiles, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}
	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, config.DriverSQLite, target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run %s migrations: %w", dir, err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed successfully",
		zap.String("driver", config.DriverSQLite),
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// runOracleMigrations executes the embedded files statement by statement.
// go-ora runs one statement per Exec, so files are split on ';'.
func runOracleMigrations(db *sql.DB, dir Direction) error {
	root := "migrations/oracle"
	entries, err := fs.ReadDir(migrationFiles, root)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(dir) + ".sql"
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := fs.ReadFile(migrationFiles, root+"/"+name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				if isAlreadyApplied(err) {
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("driver", config.DriverOracle))
	return nil
}

// SplitStatements splits a migration file into individual statements.
func SplitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ORA-00955: name already used, ORA-00942: table does not exist.
func isAlreadyApplied(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00955") || strings.Contains(msg, "ORA-00942")
}
