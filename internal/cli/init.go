// Package cli provides common CLI initialization utilities.
package cli

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/codewithmeedev/personal-finance-manager/internal/api"
	"github.com/codewithmeedev/personal-finance-manager/internal/auth"
	"github.com/codewithmeedev/personal-finance-manager/internal/config"
	applog "github.com/codewithmeedev/personal-finance-manager/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitClient builds the API client backed by file-based credential storage.
func InitClient(logger *applog.Logger, cfg *config.Config) *api.Client {
	creds := auth.NewFileStore(cfg.CredentialsFile)
	return api.NewClient(cfg.APIBaseURL, creds,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithLogger(logger.WithComponent(applog.ComponentAPI)),
	)
}
