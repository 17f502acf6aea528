package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/kgothalangLekitlane/Learn/pkg/config"
	"github.com/kgothalangLekitlane/Learn/pkg/database"
	"github.com/kgothalangLekitlane/Learn/pkg/logger"
)

// Standalone migration runner for deployments that keep
// LEARN_DB_RUN_MIGRATIONS=false on the main process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbCfg := cfg.Database
	dbCfg.RunMigrations = false

	db, err := database.Connect(ctx, dbCfg, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	appLogger.Info("running schema migration")

	if err := database.Migrate(db); err != nil {
		appLogger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("schema migration complete")
}
