package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config keeps runtime settings for the server.
type Config struct {
	Driver     string
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	HTTPAddr      string
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[info] no .env file, using system environment")
	}

	cfg := Config{
		Driver:     strings.ToLower(strings.TrimSpace(getenvDefault("DB_DRIVER", DriverMySQL))),
		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBName:     strings.TrimSpace(os.Getenv("DB_NAME")),
		DBUser:     strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword: os.Getenv("DB_PASSWORD"),

		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		SessionTTL:    parseDuration(os.Getenv("SESSION_TTL"), 30*time.Minute),
		SweepInterval: parseDuration(os.Getenv("SESSION_SWEEP_INTERVAL"), 5*time.Minute),
	}

	switch cfg.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.Driver, DriverMySQL, DriverPostgres)
	}

	cfg.DBPort = defaultPort(cfg.Driver)
	if raw := strings.TrimSpace(os.Getenv("DB_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid DB_PORT %q", raw)
		}
		cfg.DBPort = port
	}

	if cfg.DBName == "" {
		return cfg, fmt.Errorf("DB_NAME is required")
	}
	if cfg.DBUser == "" {
		return cfg, fmt.Errorf("DB_USER is required")
	}

	return cfg, nil
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

func getenvDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
