package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/Alijeyrad/klinik_backend/config"
)

// InitializeDatabases creates every database named in server.databases
// through the maintenance database "postgres". Existing ones are left alone.
func InitializeDatabases(cfg *config.Config) error {
	if len(cfg.Server.Databases) == 0 {
		return errors.New("server.databases is empty")
	}

	admin := FromCentralConfig(cfg.Database)
	admin.DBName = "postgres"

	ctx := context.Background()
	conn, err := openSQL(ctx, admin)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, name := range cfg.Server.Databases {
		if err := createDatabaseIfNotExists(conn, name); err != nil {
			return fmt.Errorf("database %q: %w", name, err)
		}
	}
	return nil
}

func createDatabaseIfNotExists(conn *sql.DB, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	err := conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, dbName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check existence: %w", err)
	}
	if exists {
		slog.Debug("database exists", "name", dbName)
		return nil
	}

	// CREATE DATABASE takes no bind parameters.
	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	slog.Info("database created", "name", dbName)
	return nil
}
