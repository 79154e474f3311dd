package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Sync: SyncConfig{Policy: "patch"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:   "refetch policy",
			modify: func(c *Config) { c.Sync.Policy = "refetch" },
		},
		{
			name:    "missing url",
			modify:  func(c *Config) { c.API.URL = "" },
			wantErr: "api.url is required",
		},
		{
			name:    "relative url",
			modify:  func(c *Config) { c.API.URL = "localhost:8000" },
			wantErr: "api.url must be an http or https URL",
		},
		{
			name: "token and token file",
			modify: func(c *Config) {
				c.API.Token = "abc"
				c.API.TokenFile = "/run/secrets/token"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: "api.timeout must be positive",
		},
		{
			name:    "unknown sync policy",
			modify:  func(c *Config) { c.Sync.Policy = "eventual" },
			wantErr: "invalid sync.policy: eventual (must be 'patch' or 'refetch')",
		},
		{
			name:    "empty preset",
			modify:  func(c *Config) { c.Filter.Presets = map[string]string{"busy": " "} },
			wantErr: `filter preset "busy" has an empty expression`,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  url: https://cinema.example.com
  token: file-token
  timeout: 5s
sync:
  policy: refetch
filter:
  presets:
    busy: AvailableSeats < 10
safety:
  dry_run: true
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cinema.example.com", cfg.API.URL)
	assert.Equal(t, "file-token", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "cinemactl", cfg.API.UserAgent)
	assert.Equal(t, "refetch", cfg.Sync.Policy)
	assert.Equal(t, map[string]string{"busy": "AvailableSeats < 10"}, cfg.Filter.Presets)
	assert.True(t, cfg.Safety.DryRun)
	assert.True(t, cfg.Safety.ConfirmDelete)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CINEMA_API_URL", "http://api.local:9000")
	t.Setenv("CINEMA_API_TOKEN", "env-token")
	t.Setenv("CINEMA_SYNC_POLICY", "refetch")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:9000", cfg.API.URL)
	assert.Equal(t, "env-token", cfg.API.Token)
	assert.Equal(t, "refetch", cfg.Sync.Policy)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CINEMA_LOGGING_LEVEL", "warn")
	// godotenv only sets variables that are unset; register cleanup for them
	t.Setenv("CINEMA_API_TOKEN_FILE", "")
	require.NoError(t, os.Unsetenv("CINEMA_API_TOKEN_FILE"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"CINEMA_API_TOKEN_FILE=/tmp/cinema-token\nCINEMA_LOGGING_LEVEL=debug\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cinema-token", cfg.API.TokenFile)
	assert.Equal(t, "warn", cfg.Logging.Level, "process environment wins over .env")
}
