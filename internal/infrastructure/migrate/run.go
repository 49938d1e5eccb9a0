package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var embedded embed.FS

// newMigrator builds a migrate instance on top of db. An empty
// migrationPath uses the SQL files compiled into the binary.
func newMigrator(sqlDB *sql.DB, migrationPath string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating postgres driver: %w", err)
	}

	if migrationPath != "" {
		m, err := migrate.NewWithDatabaseInstance(
			fmt.Sprintf("file://%s", migrationPath),
			"postgres",
			driver,
		)
		if err != nil {
			return nil, fmt.Errorf("creating migrate instance: %w", err)
		}
		return m, nil
	}

	src, err := iofs.New(embedded, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

func sqlDBOf(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(db *gorm.DB, migrationPath string) error {
	sqlDB, err := sqlDBOf(db)
	if err != nil {
		return err
	}
	m, err := newMigrator(sqlDB, migrationPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	slog.Info("migrations applied", "module", "migrate")
	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(db *gorm.DB, migrationPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	sqlDB, err := sqlDBOf(db)
	if err != nil {
		return err
	}
	m, err := newMigrator(sqlDB, migrationPath)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	return nil
}

// Version reports the applied schema version and whether the last run left
// it dirty.
func Version(db *gorm.DB, migrationPath string) (uint, bool, error) {
	sqlDB, err := sqlDBOf(db)
	if err != nil {
		return 0, false, err
	}
	m, err := newMigrator(sqlDB, migrationPath)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading schema version: %w", err)
	}
	return v, dirty, nil
}
