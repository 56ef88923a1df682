package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Output   OutputConfig
	Database DatabaseConfig
	Log      LogConfig
}

// OutputConfig holds what a processing run produces and where
type OutputConfig struct {
	DataDir         string
	Format          string
	ToFrame         bool
	Save            bool
	Return          bool
	Verbose         bool
	ContinueOnError bool
	XLSXPath        string
	ReportPath      string
}

// DatabaseConfig holds run-store configuration. An empty DSN disables the store.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// LogConfig selects the slog handler
type LogConfig struct {
	Format string // auto | json | text
	Level  string // debug | info | warn | error
}

// Log formats.
const (
	LogFormatAuto = "auto"
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LoadConfig loads configuration from environment variables, after reading an optional .env file
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Output: OutputConfig{
			DataDir:         getEnv("CUTFLOW_DATA_DIR", ""),
			Format:          getEnv("CUTFLOW_FORMAT", "csv"),
			ToFrame:         getEnvAsBool("CUTFLOW_TO_FRAME", true),
			Save:            getEnvAsBool("CUTFLOW_SAVE", true),
			Return:          getEnvAsBool("CUTFLOW_RETURN", true),
			Verbose:         getEnvAsBool("CUTFLOW_VERBOSE", false),
			ContinueOnError: getEnvAsBool("CUTFLOW_CONTINUE_ON_ERROR", false),
			XLSXPath:        getEnv("CUTFLOW_XLSX", ""),
			ReportPath:      getEnv("CUTFLOW_REPORT", ""),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", LogFormatAuto),
			Level:  getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the parts of the configuration that are not processing options
func (c *Config) Validate() error {
	v := NewValidator().
		Field("LOG_FORMAT", c.Log.Format, OneOf(LogFormatAuto, LogFormatJSON, LogFormatText)).
		Field("LOG_LEVEL", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("CUTFLOW_FORMAT", c.Output.Format, OneOf("csv", "tsv"))
	if c.Database.DSN != "" {
		v.Field("DB_MAX_CONNS", int(c.Database.MaxConns), Positive).
			Field("DB_DIAL_TIMEOUT", int(c.Database.DialTimeout), Positive)
	}
	return ValidateAndReturnError(v)
}
