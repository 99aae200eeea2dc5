package sched

import (
	"fmt"
	"log/slog"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// DefaultQuantum is the Round-Robin quantum used when none is configured.
const DefaultQuantum = 10

// Config mirrors the optional settings file (settings.yml).
type Config struct {
	HistoryLimit  int    `yaml:"history_limit"`   // 10000 (by default)
	SnapshotEvery int    `yaml:"snapshot_every"`  // 1 (by default)
	TickMS        int    `yaml:"tick_ms"`         // 0 = no playback pacing
	Quantum       int    `yaml:"default_quantum"` // 10 (by default)
	LogLevel      string `yaml:"log_level"`       // info
	LogFormat     string `yaml:"log_format"`      // text
	DBPath        string `yaml:"db_path"`         // empty = no run archive
}

// DefaultConfig is used when no settings file is given.
func DefaultConfig() Config {
	return Config{
		HistoryLimit:  DefaultHistoryLimit,
		SnapshotEvery: 1,
		TickMS:        0,
		Quantum:       DefaultQuantum,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse settings %s: %w", path, err)
	}

	// sanity clamps
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 1
	}
	if cfg.TickMS < 0 {
		cfg.TickMS = 0
	}
	if cfg.Quantum <= 0 {
		cfg.Quantum = DefaultQuantum
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg, nil
}

// Options builds engine options for a run of alg. A non-positive quantum
// falls back to the configured default.
func (c Config) Options(alg Algorithm, quantum int, logger *slog.Logger) Options {
	if quantum <= 0 {
		quantum = c.Quantum
	}
	return Options{
		Algorithm:     alg,
		Quantum:       quantum,
		HistoryLimit:  c.HistoryLimit,
		SnapshotEvery: c.SnapshotEvery,
		Logger:        logger,
	}
}
