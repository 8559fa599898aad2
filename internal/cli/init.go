// Package cli consolidates the startup sequence shared by the binaries
// under cmd/.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"patrimonio/internal/config"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// Bootstrap loads the environment, builds the configuration and installs
// the process logger. It exits the process when the configuration is
// invalid: a binary with a broken config has nothing useful to do.
func Bootstrap(component string) (*config.Config, *applog.Logger) {
	// .env is for local development; absence is fine in production.
	_ = godotenv.Load()

	cfg := config.Load()
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := applog.New(level, component)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenStorage opens the SQLite repository and runs pending migrations,
// exiting the process on failure.
func OpenStorage(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	storageLog := logger.WithComponent(applog.ComponentStorage)
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		storageLog.Error("failed to initialize storage", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	storageLog.Info("database ready", "path", dbPath)
	return repo
}
