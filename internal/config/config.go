// Package config loads the dispatcher's bootstrapping configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LogConfig controls the host's logrus setup.
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// MonitorConfig controls whether Prometheus collectors are wired up.
type MonitorConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DispatcherConfig is the set of knobs a host process needs to bring up a
// scpi.Dispatcher: none of it is read by the dispatcher itself at command
// execution time, so it stays outside spec.md's "no persisted state"
// constraint on the parser's own runtime behavior.
type DispatcherConfig struct {
	ErrorQueueSize   int    `yaml:"error_queue_size"`
	ByteOrder        string `yaml:"byte_order"` // "big" or "little"
	MaxCommandLength int    `yaml:"max_command_length"`
	MaxBlockDataSize int    `yaml:"max_block_data_size"`
	IDN              string `yaml:"idn"`
	AutoResetContext bool   `yaml:"auto_reset_context"`

	Log     LogConfig     `yaml:"log"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// DefaultConfig returns the configuration a host gets if it never loads
// one from disk.
func DefaultConfig() *DispatcherConfig {
	return &DispatcherConfig{
		ErrorQueueSize:   20,
		ByteOrder:        "big",
		MaxCommandLength: 65536,
		MaxBlockDataSize: 100 * 1024 * 1024,
		IDN:              "SCPI-Parser,VirtualInstrument,SN000000,0.1",
		AutoResetContext: true,
		Log:              LogConfig{Level: "info", Format: "text"},
		Monitor:          MonitorConfig{Enabled: true},
	}
}

// LoadConfig reads and parses a YAML dispatcher configuration file.
func LoadConfig(path string) (*DispatcherConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
