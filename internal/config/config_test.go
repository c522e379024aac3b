package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Table)
	assert.Nil(t, cfg.Stats.CurveWindow)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
table = 7
scope-to-table = false
shuffle = "uniform"
bell = true

[stats]
curve-window = 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Table)
	assert.Equal(t, 7, *cfg.Practice.Table)
	require.NotNil(t, cfg.Practice.ScopeToTable)
	assert.False(t, *cfg.Practice.ScopeToTable)
	require.NotNil(t, cfg.Practice.Shuffle)
	assert.Equal(t, "uniform", *cfg.Practice.Shuffle)
	assert.Nil(t, cfg.Practice.BellOnSuccess)
	require.NotNil(t, cfg.Stats.CurveWindow)
	assert.Equal(t, 5, *cfg.Stats.CurveWindow)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "practice.lang")
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "timesdrill", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "timesdrill", "timesdrill.db"), DefaultDBPath())
}
