package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".orla")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	fileContents := "server:\n  url: https://file.example.com\nlogging:\n  level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(fileContents), 0o600))

	t.Setenv("ORLA_SERVER_URL", "https://env.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Server.URL, "environment wins over the file")
	assert.Equal(t, "warn", cfg.Logging.Level, "file values survive when no env override exists")
}

func TestLoadReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".orla")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	fileContents := "server:\n  url: https://api.orla.example\nlogging:\n  level: debug\n  debug: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(fileContents), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.orla.example", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".orla")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("{not yaml"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NODE_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid http", url: "http://localhost:8000"},
		{name: "valid https", url: "https://api.example.com"},
		{name: "empty", url: "", wantErr: true},
		{name: "bad scheme", url: "ftp://example.com", wantErr: true},
		{name: "no host", url: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{URL: tt.url}}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsInsecure(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://localhost:8000", false},
		{"http://127.0.0.1:8000", false},
		{"https://api.example.com", false},
		{"http://api.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{URL: tt.url}}
			assert.Equal(t, tt.want, cfg.IsInsecure())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{}
	cfg.Server.URL = "https://api.orla.example"
	cfg.Logging.Level = "warn"
	cfg.Logging.Debug = true
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.orla.example", loaded.Server.URL)
	assert.Equal(t, "warn", loaded.Logging.Level)
	assert.True(t, loaded.Logging.Debug)
}
