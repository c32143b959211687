package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the per-workspace configuration file.
const FileName = "breezeport.yaml"

// Config represents the top-level breezeport.yaml configuration.
type Config struct {
	Batch    BatchConfig    `yaml:"batch"`
	Donation DonationConfig `yaml:"donation"`
	Storage  StorageConfig  `yaml:"storage"`
	Export   ExportConfig   `yaml:"export"`
}

// BatchConfig holds defaults for batch metadata; both are overridable
// per run from the command line.
type BatchConfig struct {
	DefaultName   string `yaml:"default_name"`
	DefaultNumber string `yaml:"default_number"`
}

// DonationConfig holds the constant fund and method stamped onto every
// exported record.
type DonationConfig struct {
	Fund   string `yaml:"fund"`
	Method string `yaml:"method"`
}

// StorageConfig locates the directory database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ExportConfig controls the output artifact.
type ExportConfig struct {
	Format string `yaml:"format"` // "csv" or "xlsx"
	Dir    string `yaml:"dir"`
}

// Load reads a breezeport.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the conventional defaults.
func Default() *Config {
	return &Config{
		Batch: BatchConfig{
			DefaultName:   "Zelle Import",
			DefaultNumber: "100",
		},
		Donation: DonationConfig{
			Fund:   "Tithe",
			Method: "Zelle",
		},
		Storage: StorageConfig{
			DatabasePath: "breeze.db",
		},
		Export: ExportConfig{
			Format: "csv",
			Dir:    "export",
		},
	}
}
