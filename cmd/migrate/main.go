package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/pageza/glucolink/backend/internal/database"
	"github.com/pageza/glucolink/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Error("DATABASE_URL environment variable is not set")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *rollback {
		name, err := database.RollbackLast(ctx, db)
		if errors.Is(err, database.ErrNoMigrations) {
			logger.Info("no migrations to rollback")
			return
		}
		if err != nil {
			logger.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		logger.Info("rolled back migration", "name", name)
		return
	}

	applied, err := database.ApplyMigrations(ctx, db)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if len(applied) == 0 {
		logger.Info("database is up to date")
		return
	}
	for _, name := range applied {
		logger.Info("applied migration", "name", name)
	}
}
