// Package config loads the two-key YAML file that points the
// converter at its raw and processed data roots, the same shape
// original_source/src/main.py reads from config.yaml. The teacher pack
// has no config-loading code of its own; this follows the plain
// gopkg.in/yaml.v3 unmarshal style used elsewhere in the pack.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk processing configuration (§1, §6).
type Config struct {
	RawDataFolder   string `yaml:"raw_data_folder"`
	ProcessedFolder string `yaml:"processed_folder"`
}

// Load reads and parses path into a Config. Both keys are required;
// a missing one is a load error rather than a silently empty path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.RawDataFolder == "" {
		return Config{}, fmt.Errorf("config: %s missing raw_data_folder", path)
	}
	if cfg.ProcessedFolder == "" {
		return Config{}, fmt.Errorf("config: %s missing processed_folder", path)
	}

	return cfg, nil
}
