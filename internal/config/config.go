// Package config loads symdex configuration: a JSON file under the
// .symdex data directory with environment overrides, plus an optional
// symdex.toml in the indexed tree overriding the file filter for that tree.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"symdex/internal/symbols"
)

const (
	// ConfigVersion is the current config schema version.
	ConfigVersion = 1

	// DataDirName is the per-tree data directory holding config, snapshot,
	// and build history.
	DataDirName = ".symdex"

	configFile  = "config.json"
	projectFile = "symdex.toml"
)

// Config is the complete symdex configuration.
type Config struct {
	Version      int      `json:"version" mapstructure:"version"`
	Extensions   []string `json:"extensions" mapstructure:"extensions"`
	Ignores      []string `json:"ignores" mapstructure:"ignores"`
	Workers      int      `json:"workers" mapstructure:"workers"`
	SnapshotFile string   `json:"snapshotFile" mapstructure:"snapshotFile"`

	History HistoryConfig `json:"history" mapstructure:"history"`
	Search  SearchConfig  `json:"search" mapstructure:"search"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// HistoryConfig controls the build-history store.
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// SearchConfig controls query defaults.
type SearchConfig struct {
	Limit int `json:"limit" mapstructure:"limit"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"` // "json" or "human"
	Level  string `json:"level" mapstructure:"level"`   // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:    ConfigVersion,
		Extensions: symbols.SupportedExtensions(),
		Ignores: []string{
			".git", DataDirName, "__pycache__", "node_modules", "vendor",
			".venv", "venv", "dist", "build", ".pytest_cache", ".mypy_cache",
		},
		Workers:      0, // 0 = bounded default chosen by the builder
		SnapshotFile: "index.snapshot",
		History:      HistoryConfig{Enabled: true},
		Search:       SearchConfig{Limit: 50},
		Logging:      LoggingConfig{Format: "human", Level: "info"},
	}
}

// Load reads the configuration for an indexed tree rooted at root.
// Missing config files are not an error: defaults apply, then
// SYMDEX_-prefixed environment variables, then symdex.toml overrides.
func Load(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(root, DataDirName, configFile))
	v.SetConfigType("json")
	v.SetEnvPrefix("SYMDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Version != ConfigVersion {
		return nil, fmt.Errorf("unsupported config version %d (want %d)", cfg.Version, ConfigVersion)
	}

	if err := applyProjectOverrides(root, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("extensions", cfg.Extensions)
	v.SetDefault("ignores", cfg.Ignores)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("snapshotFile", cfg.SnapshotFile)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("search.limit", cfg.Search.Limit)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Save writes the configuration to .symdex/config.json under root.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, DataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// EnsureSaved writes the default configuration to .symdex/config.json if no
// config file exists yet, so the filter rules are visible and editable. An
// existing file is left alone: saving a loaded config would bake env and
// symdex.toml overrides into it.
func EnsureSaved(root string) error {
	path := filepath.Join(root, DataDirName, configFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config: %w", err)
	}
	return Default().Save(root)
}

// DataDir returns the data directory for a tree.
func DataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// SnapshotPath returns the absolute snapshot path for a tree.
func (c *Config) SnapshotPath(root string) string {
	return filepath.Join(DataDir(root), c.SnapshotFile)
}

// projectOverrides is the shape of an optional symdex.toml at the root of
// an indexed tree. Lists replace the configured values outright when set.
type projectOverrides struct {
	Extensions   []string `toml:"extensions"`
	Ignores      []string `toml:"ignores"`
	ExtraIgnores []string `toml:"extra_ignores"`
}

func applyProjectOverrides(root string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Join(root, projectFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", projectFile, err)
	}

	var po projectOverrides
	if err := toml.Unmarshal(data, &po); err != nil {
		return fmt.Errorf("parsing %s: %w", projectFile, err)
	}

	if len(po.Extensions) > 0 {
		cfg.Extensions = po.Extensions
	}
	if len(po.Ignores) > 0 {
		cfg.Ignores = po.Ignores
	}
	cfg.Ignores = append(cfg.Ignores, po.ExtraIgnores...)
	return nil
}
