package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Lançamentos", cfg.Input.Sheet)
	assert.Equal(t, 2, cfg.Input.HeaderRow)
	assert.Equal(t, "auto", cfg.Input.Decimal)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Empty(t, cfg.Output.SQLiteDSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
input:
  path: data/ledger.xlsx
  sheet: Movimentos
  header_row: 1
  decimal: comma
output:
  dir: out
  sqlite_dsn: runs.db
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/ledger.xlsx", cfg.Input.Path)
	assert.Equal(t, "Movimentos", cfg.Input.Sheet)
	assert.Equal(t, 1, cfg.Input.HeaderRow)
	assert.Equal(t, "comma", cfg.Input.Decimal)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "runs.db", cfg.Output.SQLiteDSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("input: ["), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
