package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ACCESSKEY_CONFIG", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "por+eng", cfg.TesseractLanguage)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.True(t, cfg.EnableOCR)
	assert.Equal(t, 50, cfg.MinTextLength)
	assert.Empty(t, cfg.DatabasePath)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("ACCESSKEY_CONFIG", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_WORKERS", "8")
	t.Setenv("ENABLE_OCR", "false")
	t.Setenv("DATABASE_PATH", "/tmp/keys.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 8, cfg.MaxWorkers)
	assert.False(t, cfg.EnableOCR)
	assert.Equal(t, "/tmp/keys.db", cfg.DatabasePath)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accesskey.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_port: \"7000\"\nlog_level: debug\nmin_text_length: 10\n"), 0o644))
	t.Setenv("ACCESSKEY_CONFIG", path)
	t.Setenv("SERVER_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.MinTextLength)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("ACCESSKEY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestFromViperRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("max_file_size", 0)

	_, err := FromViper(v)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = (&Config{LogLevel: "loud"}).NewLogger()
	assert.Error(t, err)
}
