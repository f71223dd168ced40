package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const rollbackSuffix = "_rollback.sql"

// ErrNoMigrations is returned by RollbackLast when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to rollback")

// Migration is one forward migration and its optional rollback script.
type Migration struct {
	Version  string
	Name     string
	Up       string
	Rollback string
}

// Migrations lists the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".sql") && !strings.HasSuffix(name, rollbackSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		up, err := fs.ReadFile(migrationFiles, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		m := Migration{
			Version: strings.SplitN(name, "_", 2)[0],
			Name:    name,
			Up:      string(up),
		}
		if down, err := fs.ReadFile(migrationFiles, "migrations/"+strings.TrimSuffix(name, ".sql")+rollbackSuffix); err == nil {
			m.Rollback = string(down)
		}
		out = append(out, m)
	}
	return out, nil
}

// RunMigrations brings the schema up to date. SQLite databases (tests and
// local development) use gorm auto-migration; postgres uses the SQL files.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		logger.Info("using gorm auto-migration for sqlite")
		return db.AutoMigrate(models.All()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	_, err = ApplyMigrations(context.Background(), sqlDB)
	return err
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(32) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// ApplyMigrations applies every pending migration, each in its own
// transaction, and returns the names that were applied.
func ApplyMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = $1", m.Version).Scan(&count); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logger.Debug("skipping migration", "name", m.Name)
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to start transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %s: %w", m.Name, err)
		}

		logger.Info("applied migration", "name", m.Name)
		applied = append(applied, m.Name)
	}

	return applied, nil
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(ctx context.Context, db *sql.DB) (string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return "", err
	}

	var version, name string
	err := db.QueryRowContext(ctx, `
		SELECT version, name
		FROM schema_migrations
		ORDER BY version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return "", err
	}
	var script string
	for _, m := range migrations {
		if m.Version == version {
			script = m.Rollback
		}
	}
	if script == "" {
		return "", fmt.Errorf("rollback file not found for %s", name)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to execute rollback: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rollback: %w", err)
	}

	logger.Info("rolled back migration", "name", name)
	return name, nil
}
