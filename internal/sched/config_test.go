package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	data := "history_limit: 50\nsnapshot_every: -3\ntick_ms: 20\ndefault_quantum: 0\nlog_level: debug\ndb_path: runs.db\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 1, cfg.SnapshotEvery)
	assert.Equal(t, 20, cfg.TickMS)
	assert.Equal(t, DefaultQuantum, cfg.Quantum)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "runs.db", cfg.DBPath)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("history_limit: [1, 2\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryLimit = 7

	opts := cfg.Options(RoundRobin, 0, nil)
	assert.Equal(t, DefaultQuantum, opts.Quantum)
	assert.Equal(t, 7, opts.HistoryLimit)
	assert.Equal(t, RoundRobin, opts.Algorithm)

	assert.Equal(t, 3, cfg.Options(RoundRobin, 3, nil).Quantum)
}

func TestShippedSettingsMatchDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "settings.example.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
