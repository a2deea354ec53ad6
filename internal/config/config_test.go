package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsvault/nsvault/internal/config"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := config.Defaults()
	cfg.Language = "ru"
	cfg.Retention.MinKeep = 10
	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ru", loaded.Language)
	assert.Equal(t, 10, loaded.Retention.MinKeep)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoad_PartialFileFillsRemainingDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: es\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, config.DefaultPasswordLength, cfg.Password.Length)
	assert.Equal(t, 5, cfg.Retention.MinKeep)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, config.Save(config.Defaults(), path))
	assert.FileExists(t, path)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Retention.MinKeep)
	assert.Equal(t, 30, cfg.Retention.MaxAgeDays)
	assert.NotEmpty(t, cfg.WalletDir)
	assert.NotEmpty(t, cfg.BackupDir)
}

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/home/user", "config.yaml"), config.Path("/home/user"))
}

func TestDefaultHome(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, config.DefaultHome())
}
