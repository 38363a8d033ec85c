// Package config holds the optional run configuration shared by the CLI
// commands. Every field has a usable default so the file is never required.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config supplies default paths and store settings for profiler runs.
type Config struct {
	MasterKey     string   `yaml:"master_key" json:"master_key"`
	ConsensusDir  string   `yaml:"consensus_dir" json:"consensus_dir"`
	ProfileSuffix string   `yaml:"profile_suffix" json:"profile_suffix"`
	Database      Database `yaml:"database" json:"database"`
}

// Database configures the optional SQLite profile store.
type Database struct {
	Path  string `yaml:"path" json:"path"`
	Debug bool   `yaml:"debug" json:"debug"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		MasterKey:     "MASTER_ToolKey.tsv",
		ConsensusDir:  ".",
		ProfileSuffix: "_defenceprofile.csv",
	}
}

// Load parses YAML bytes into a Config, filling gaps with defaults.
func Load(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return applyDefaults(cfg), nil
}

// LoadFile reads a config file. A missing path returns the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data)
}

func applyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MasterKey == "" {
		cfg.MasterKey = def.MasterKey
	}
	if cfg.ConsensusDir == "" {
		cfg.ConsensusDir = def.ConsensusDir
	}
	if cfg.ProfileSuffix == "" {
		cfg.ProfileSuffix = def.ProfileSuffix
	}
	return cfg
}
