package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Path: "/some/path/watchlog.db",
		},
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{
				App: AppConfig{
					Environment: tt.env,
				},
				Logger: LoggerConfig{
					Level: "info",
				},
				Database: DatabaseConfig{
					Path: "/some/path/watchlog.db",
				},
			}

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{
				App: AppConfig{
					Environment: "development",
				},
				Logger: LoggerConfig{
					Level: tt.level,
				},
				Database: DatabaseConfig{
					Path: "/some/path/watchlog.db",
				},
			}

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Override wins over everything.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Env var wins over default.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Default when nothing else is set.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	result, err := expandPath("", "/default/watchlog.db")
	require.NoError(t, err)
	assert.Equal(t, "/default/watchlog.db", result)
}

func TestExpandPath_TildeExpansion(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	result, err := expandPath("~/media/watchlog.db", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "media", "watchlog.db"), result)
}

func TestExpandPath_AbsolutePath(t *testing.T) {
	result, err := expandPath("/data/watchlog.db", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/data/watchlog.db", result)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")

	content := `# comment line
TEST_WATCHLOG_A=hello
TEST_WATCHLOG_B="quoted value"

TEST_WATCHLOG_C = spaced
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	defer func() {
		os.Unsetenv("TEST_WATCHLOG_A") //nolint:errcheck // Test cleanup
		os.Unsetenv("TEST_WATCHLOG_B") //nolint:errcheck // Test cleanup
		os.Unsetenv("TEST_WATCHLOG_C") //nolint:errcheck // Test cleanup
	}()

	err := loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "hello", os.Getenv("TEST_WATCHLOG_A"))
	assert.Equal(t, "quoted value", os.Getenv("TEST_WATCHLOG_B"))
	assert.Equal(t, "spaced", os.Getenv("TEST_WATCHLOG_C"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT A VALID LINE\n"), 0o644))

	err := loadEnvFile(envFile)
	assert.Error(t, err)
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	os.Setenv("TEST_WATCHLOG_KEEP", "original") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_WATCHLOG_KEEP")     //nolint:errcheck // Test cleanup

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TEST_WATCHLOG_KEEP=overwritten\n"), 0o644))

	err := loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "original", os.Getenv("TEST_WATCHLOG_KEEP"))
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(Overrides{
		DBPath:  filepath.Join(dir, "watchlog.db"),
		EnvFile: filepath.Join(dir, "no-such.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "en-US", cfg.TMDB.Language)
	assert.Equal(t, filepath.Join(dir, "watchlog.db"), cfg.Database.Path)
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "error") //nolint:errcheck // Test setup
	defer os.Unsetenv("LOG_LEVEL")  //nolint:errcheck // Test cleanup

	dir := t.TempDir()
	cfg, err := Load(Overrides{
		LogLevel: "debug",
		DBPath:   filepath.Join(dir, "watchlog.db"),
		EnvFile:  filepath.Join(dir, "no-such.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
}
