package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/pgcascade/pkg/catalog"
)

// Config holds all application configuration.
type Config struct {
	Connection ConnectionConfig
	Output     OutputConfig
	LogLevel   string
}

// ConnectionConfig holds PostgreSQL connection settings.
type ConnectionConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout time.Duration
	MaxOpenConns   int
	MaxIdleConns   int
}

// OutputConfig holds report and graph output settings.
type OutputConfig struct {
	Dir       string
	Format    string
	MaxDepth  int
	CacheSize int
}

// fileConfig is the optional YAML defaults file (~/.pgcascade.yaml).
// Every field is optional; unset fields keep their built-in or
// environment value.
type fileConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	Dir      string `yaml:"output_dir"`
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration: built-in defaults, overridden by the
// optional YAML defaults file, overridden by PGCASCADE_* environment
// variables. CLI flags are applied on top by the caller.
func Load() (*Config, error) {
	cfg := defaults()

	if err := applyFile(cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	currentUser := os.Getenv("USER")
	return &Config{
		Connection: ConnectionConfig{
			Host:           "localhost",
			Port:           5432,
			User:           currentUser,
			Database:       currentUser,
			SSLMode:        "prefer",
			ConnectTimeout: 10 * time.Second,
			MaxOpenConns:   4,
			MaxIdleConns:   2,
		},
		Output: OutputConfig{
			Dir:       ".",
			Format:    "pdf",
			CacheSize: 512,
		},
		LogLevel: "info",
	}
}

// applyFile merges the YAML defaults file if one exists. The path comes
// from PGCASCADE_CONFIG or falls back to ~/.pgcascade.yaml. A missing
// file is not an error; an unreadable or malformed one is.
func applyFile(cfg *Config) error {
	path := os.Getenv("PGCASCADE_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".pgcascade.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Host != "" {
		cfg.Connection.Host = fc.Host
	}
	if fc.Port > 0 {
		cfg.Connection.Port = fc.Port
	}
	if fc.User != "" {
		cfg.Connection.User = fc.User
	}
	if fc.Database != "" {
		cfg.Connection.Database = fc.Database
	}
	if fc.SSLMode != "" {
		cfg.Connection.SSLMode = fc.SSLMode
	}
	if fc.Dir != "" {
		cfg.Output.Dir = fc.Dir
	}
	if fc.Format != "" {
		cfg.Output.Format = fc.Format
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Connection.Host = getEnv("PGCASCADE_HOST", cfg.Connection.Host)
	cfg.Connection.Port = getEnvInt("PGCASCADE_PORT", cfg.Connection.Port)
	cfg.Connection.User = getEnv("PGCASCADE_USER", cfg.Connection.User)
	cfg.Connection.Password = getEnv("PGCASCADE_PASSWORD", cfg.Connection.Password)
	cfg.Connection.Database = getEnv("PGCASCADE_DATABASE", cfg.Connection.Database)
	cfg.Connection.SSLMode = getEnv("PGCASCADE_SSLMODE", cfg.Connection.SSLMode)
	cfg.Connection.ConnectTimeout = getEnvDuration("PGCASCADE_CONNECT_TIMEOUT", cfg.Connection.ConnectTimeout)
	cfg.Output.Dir = getEnv("PGCASCADE_OUTPUT_DIR", cfg.Output.Dir)
	cfg.Output.Format = getEnv("PGCASCADE_FORMAT", cfg.Output.Format)
	cfg.Output.MaxDepth = getEnvInt("PGCASCADE_MAX_DEPTH", cfg.Output.MaxDepth)
	cfg.LogLevel = getEnv("PGCASCADE_LOG_LEVEL", cfg.LogLevel)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Connection.Port)
	}
	if c.Connection.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Output.Format == "" {
		return fmt.Errorf("output format is required")
	}
	if c.Output.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative: %d", c.Output.MaxDepth)
	}
	return nil
}

// CatalogConfig converts the connection settings for the catalog gateway.
func (c *Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		Host:           c.Connection.Host,
		Port:           c.Connection.Port,
		User:           c.Connection.User,
		Password:       c.Connection.Password,
		Database:       c.Connection.Database,
		SSLMode:        c.Connection.SSLMode,
		ConnectTimeout: c.Connection.ConnectTimeout,
		MaxOpenConns:   c.Connection.MaxOpenConns,
		MaxIdleConns:   c.Connection.MaxIdleConns,
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
