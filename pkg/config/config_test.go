package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	LogLevel string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Folder   string `env:"TEST_CFG_FOLDER" envDefault:"products/"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "products/", cfg.Folder)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	require.Error(t, Load(&cfg))
}

func TestLoadDotenv_FileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CFG_DOTENV_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TEST_CFG_DOTENV_KEY") })

	var cfg struct {
		Key string `env:"TEST_CFG_DOTENV_KEY"`
	}
	require.NoError(t, LoadDotenv(&cfg, path))
	assert.Equal(t, "from-file", cfg.Key)
}

func TestLoadDotenv_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CFG_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("TEST_CFG_LOG_LEVEL", "warn")

	var cfg testConfig
	require.NoError(t, LoadDotenv(&cfg, path))
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadDotenv_MissingFileSkipped(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadDotenv(&cfg, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, 8080, cfg.Port)
}
