package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"bplog/internal/report"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string

	// Report
	ReportOutputPath string
	ReportLocale     string
	ReportFontPath   string

	// Logging
	LogLevel string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ShutdownTimeout time.Duration

	// Location for timestamps. Not read from the environment; TZ already drives time.Local.
	Location *time.Location
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./db/bp_data.db"),

		ReportOutputPath: getEnv("REPORT_OUTPUT_PATH", "./pdf/blood_pressure_records.pdf"),
		ReportLocale:     getEnv("REPORT_LOCALE", "en"),
		ReportFontPath:   getEnv("REPORT_FONT_PATH", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bplog"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "measurement_recorded"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Location: time.Local,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{BackendSQLite, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.ReportOutputPath == "" {
		errors = append(errors, "report output path cannot be empty")
	} else if strings.HasSuffix(c.ReportOutputPath, string(filepath.Separator)) {
		errors = append(errors, fmt.Sprintf("report output path '%s' must name a file", c.ReportOutputPath))
	}

	if _, err := language.Parse(c.ReportLocale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid report locale '%s': %v", c.ReportLocale, err))
	} else if report.LabelsFor(c.ReportLocale).Unicode && c.ReportFontPath == "" {
		errors = append(errors, fmt.Sprintf("report locale '%s' requires REPORT_FONT_PATH to point at a TrueType font", c.ReportLocale))
	}

	if c.ReportFontPath != "" {
		if _, err := os.Stat(c.ReportFontPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("report font file does not exist: %s", c.ReportFontPath))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
