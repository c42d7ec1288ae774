package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Record store
	APIBaseURL     string
	RequestTimeout time.Duration

	// Credential storage
	CredentialsFile string

	// Listing defaults
	PageLimit int

	// Reports
	DaysBack int

	// Google Sheets export (optional)
	SheetsSpreadsheetID string
	SheetsSheetName     string
}

func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		RequestTimeout: getEnvDuration("API_TIMEOUT", 15*time.Second),

		CredentialsFile: getEnv("CREDENTIALS_FILE", defaultCredentialsFile()),

		PageLimit: getEnvInt("PAGE_LIMIT", 10),
		DaysBack:  getEnvInt("DAYS_BACK", 30),

		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsSheetName:     getEnv("SHEETS_SHEET_NAME", "Records"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if parsed, err := url.Parse(c.APIBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if c.RequestTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	} else if c.RequestTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid request timeout %v: must be at most 5 minutes", c.RequestTimeout))
	}

	if c.CredentialsFile == "" {
		errs = append(errs, "credentials file path cannot be empty")
	}

	if c.PageLimit < 1 || c.PageLimit > 100 {
		errs = append(errs, fmt.Sprintf("invalid page limit %d: must be between 1 and 100", c.PageLimit))
	}

	if c.DaysBack < 1 || c.DaysBack > 365 {
		errs = append(errs, fmt.Sprintf("invalid days back %d: must be between 1 and 365", c.DaysBack))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack/credentials.json"
	}
	return filepath.Join(home, ".fintrack", "credentials.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
