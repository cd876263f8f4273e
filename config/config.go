package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL               string
	DBDriver            string
	SQLitePath          string
	Port                string
	UploadDir           string
	JWTSecret           string
	LogLevel            string
	LogFormat           string
	ImportRatePerMinute int
	UploadMaxAge        time.Duration
	SymbolLookupChunk   int
}

// Load reads configuration from a .env file in the working directory (if any)
// and then from environment variables. Shell variables take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PGURL:      os.Getenv("PG_URL"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", filepath.Join("data", "stockdata.db")),
		Port:       getEnv("PORT", "8080"),
		UploadDir:  getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "stockdata-uploads")),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.PGURL == "" {
			return nil, fmt.Errorf("PG_URL environment variable is required")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}

	var err error
	if cfg.ImportRatePerMinute, err = getInt("IMPORT_RATE_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.SymbolLookupChunk, err = getInt("SYMBOL_LOOKUP_CHUNK", 500); err != nil {
		return nil, err
	}

	maxAge := getEnv("UPLOAD_MAX_AGE", "24h")
	if cfg.UploadMaxAge, err = time.ParseDuration(maxAge); err != nil {
		return nil, fmt.Errorf("UPLOAD_MAX_AGE must be a duration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// ValidateServer checks the settings only the HTTP server needs
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}
