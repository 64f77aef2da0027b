package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	MongoDB   MongoDBConfig
	Functions FunctionsConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Business  BusinessConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string `env:"APP_PORT" envDefault:"8080"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName string `env:"MONGODB_DB_NAME" envDefault:"fencequote"`
}

// FunctionsConfig points at the hosted serverless functions that deliver email and SMS.
type FunctionsConfig struct {
	BaseURL string        `env:"FUNCTIONS_BASE_URL"`
	APIKey  string        `env:"FUNCTIONS_API_KEY"`
	Timeout time.Duration `env:"FUNCTIONS_TIMEOUT" envDefault:"15s"`
}

// SheetsConfig enables the Google Sheets quote ledger when both values are set.
type SheetsConfig struct {
	CredentialsPath string `env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SpreadsheetID   string `env:"GOOGLE_SHEET_LEDGER_ID"`
}

// Enabled reports whether the ledger should be wired.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string `env:"REPORT_CRON_SCHEDULE" envDefault:"0 18 * * 5"`
	Timezone     string `env:"TIMEZONE" envDefault:"America/Chicago"`
	UserID       string `env:"REPORT_USER_ID"`
	NotifyPhone  string `env:"REPORT_NOTIFY_PHONE"`
}

// BusinessConfig holds presentation values the estimator never decides itself.
type BusinessConfig struct {
	Name           string `env:"BUSINESS_NAME" envDefault:"Fence Co."`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"$"`
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Functions.BaseURL == "" {
		return errors.New("FUNCTIONS_BASE_URL must be provided")
	}
	if c.Functions.Timeout <= 0 {
		return errors.New("FUNCTIONS_TIMEOUT must be positive")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_LEDGER_ID must be set together")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}
	if (c.Reporting.UserID == "") != (c.Reporting.NotifyPhone == "") {
		return errors.New("REPORT_USER_ID and REPORT_NOTIFY_PHONE must be set together")
	}

	if c.Business.CurrencySymbol == "" {
		return errors.New("CURRENCY_SYMBOL must not be empty")
	}

	return nil
}
