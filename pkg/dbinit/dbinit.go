// Package dbinit creates and migrates the dataset catalog database.
package dbinit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"

	"github.com/amacneil/dbmate/v2/pkg/dbmate"
	_ "github.com/amacneil/dbmate/v2/pkg/driver/postgres" // PostgreSQL driver for dbmate
	_ "github.com/lib/pq"                                 // PostgreSQL driver
)

//go:embed migrations
var migrations embed.FS

// Open creates the catalog database when missing, applies the embedded
// migrations and returns a tested connection.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*sql.DB, error) {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("opening dataset catalog", slog.String("host", migrator.DatabaseURL.Host))

	names, err := MigrationNames()
	if err != nil {
		return nil, err
	}
	logger.Info("found migrations", slog.Int("count", len(names)))
	for _, name := range names {
		logger.Debug("migration file", slog.String("name", name))
	}

	if err := migrator.CreateAndMigrate(); err != nil {
		return nil, fmt.Errorf("Open: create and migrate: %w", err)
	}
	return connect(ctx, databaseURL, logger)
}

// Migrate applies pending migrations on an existing database.
func Migrate(databaseURL string, logger *slog.Logger) error {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	logger.Info("running catalog migrations", slog.String("host", migrator.DatabaseURL.Host))
	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	logger.Info("catalog migrations completed")
	return nil
}

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("MigrationNames: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func newMigrator(databaseURL string) (*dbmate.DB, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	migrationFS, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration filesystem: %w", err)
	}
	db := dbmate.New(u)
	db.AutoDumpSchema = false
	db.MigrationsDir = []string{"."}
	db.FS = migrationFS
	return db, nil
}

func connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("failed to close database connection", slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("catalog connection established")
	return sqlDB, nil
}
