// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Storage
	StorageBackend string
	SQLiteDBPath   string

	// AMQP. An empty URL disables event publishing entirely.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export, used by the worker binary. An empty
	// spreadsheet ID selects the in-memory appender.
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendSQLite),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/financas.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Ledger"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty with the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create database directory %q: %v", dir, err))
			}
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be %q or %q",
			c.StorageBackend, BackendSQLite, BackendMemory))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP_QUEUE cannot be empty when AMQP_URL is set")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
