package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Alijeyrad/klinik_backend/config"
)

// ErrSafeMode is returned by MigrateDown when migrations.safe_mode is set.
var ErrSafeMode = errors.New("down migrations disabled by migrations.safe_mode")

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending up migration to the main database.
func Migrate(cfg config.DatabaseConfig) error {
	db, err := openSQL(context.Background(), FromCentralConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	slog.Info("database migrated", "version", version, "dirty", dirty)
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(cfg config.DatabaseConfig, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	dbCfg := FromCentralConfig(cfg)
	if dbCfg.SafeMode {
		return ErrSafeMode
	}

	db, err := openSQL(context.Background(), dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}

	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
