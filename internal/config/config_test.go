package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PT_DB_PATH", "PT_PORT", "PT_DEV_MODE", "PT_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/tester")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/pt/prospects.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PT_DB_PATH", "/tmp/p.db")
	t.Setenv("PT_PORT", "9090")
	t.Setenv("PT_DEV_MODE", "true")
	t.Setenv("PT_LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := Config{DBPath: "/tmp/p.db", Port: "8080"}

	tests := []struct {
		name    string
		mut     func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"port not a number", func(c *Config) { c.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"warn level", func(c *Config) { c.LogLevel = "warn" }, false},
		{"no db path", func(c *Config) { c.DBPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mut(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PT_PORT=7070\nPT_DB_PATH=/tmp/from-env-file.db\n"), 0o600))
	t.Setenv("PT_DB_PATH", "/tmp/from-process.db")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "/tmp/from-process.db", cfg.DBPath, "process environment wins over .env")
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PT_DB_PATH", "/tmp/p.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PT_DB_PATH", "/tmp/p.db")
	t.Setenv("PT_PORT", "not-a-port")

	_, err := Load("")
	assert.Error(t, err)
}
