/*
Package config loads server settings from flags and environment.

PRECEDENCE:
  flag > environment variable > built-in default

SETTINGS:
  -port                PORT                HTTP port (8080)
  -db                  DB_PATH             SQLite path (leave.db); ":memory:" allowed
  -database-url        DATABASE_URL        Postgres DSN; takes over from -db when set
  -year-open-interval  YEAR_OPEN_INTERVAL  How often the year opener runs (1h); 0 disables
  -metrics             METRICS_ENABLED     Serve /metrics (true)
  -cors-origins        CORS_ORIGINS        Comma-separated allowed origins
                       LOG_LEVEL           debug|info|warn|error (info)
                       LOG_FORMAT          json|text (json)
*/
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             int
	DBPath           string
	DatabaseURL      string
	YearOpenInterval time.Duration
	MetricsEnabled   bool
	CORSOrigins      []string
	LogLevel         string
	LogFormat        string
}

// UsePostgres reports whether a Postgres DSN was configured.
func (c Config) UsePostgres() bool { return strings.TrimSpace(c.DatabaseURL) != "" }

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cfg     Config
		origins string
	)
	fs.IntVar(&cfg.Port, "port", getEnvInt("PORT", 8080), "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", getEnv("DB_PATH", "leave.db"), "SQLite database path")
	fs.StringVar(&cfg.DatabaseURL, "database-url", getEnv("DATABASE_URL", ""), "Postgres connection string")
	fs.DurationVar(&cfg.YearOpenInterval, "year-open-interval", getEnvDuration("YEAR_OPEN_INTERVAL", time.Hour), "year opener interval")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", getEnvBool("METRICS_ENABLED", true), "expose Prometheus metrics")
	fs.StringVar(&origins, "cors-origins", getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.CORSOrigins = splitList(origins)
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "json"))

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !c.UsePostgres() && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("either -db or -database-url is required")
	}
	if c.YearOpenInterval < 0 {
		return fmt.Errorf("year-open-interval cannot be negative")
	}
	return nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
