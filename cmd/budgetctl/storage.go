package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpggio/budgetline/internal/app"
	"github.com/rpggio/budgetline/internal/config"
	"github.com/rpggio/budgetline/internal/sqlite"
)

// openServices loads config, opens the database and wires the services.
// The caller closes the returned DB.
func openServices() (*sqlite.DB, *app.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return db, app.Wire(db, cfg, logger), nil
}

func closeDB(db *sqlite.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
