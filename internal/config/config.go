// Package config provides application configuration with support for
// command-line overrides, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	TMDB     TMDBConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatabaseConfig holds the embedded database location.
type DatabaseConfig struct {
	Path string
}

// TMDBConfig holds metadata provider configuration.
// Token is the TMDB v4 read access token, supplied out-of-band; an empty
// token disables remote lookup rather than failing startup.
type TMDBConfig struct {
	Token    string
	Language string
}

// Overrides carries values parsed from the command line; they take
// precedence over environment variables and the .env file.
type Overrides struct {
	Environment string
	LogLevel    string
	DBPath      string
	Language    string
	EnvFile     string
}

// Load builds configuration with precedence:
// 1. Command-line overrides (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(o.DBPath, "WATCHLOG_DB", ""),
		},
		TMDB: TMDBConfig{
			Token:    getConfigValue("", "TMDB_TOKEN", ""),
			Language: getConfigValue(o.Language, "TMDB_LANGUAGE", "en-US"),
		},
	}

	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty after expansion")
	}

	return nil
}

// expandDatabasePath expands ~, makes the path absolute, and ensures the
// parent directory exists. Defaults to ~/.watchlog/watchlog.db.
func (c *Config) expandDatabasePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".watchlog", "watchlog.db")

	expanded, err := expandPath(c.Database.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Database.Path = expanded

	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from override, env var,
// or default.
func getConfigValue(override, envKey, defaultValue string) string {
	if override != "" {
		return override
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Real environment variables take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
