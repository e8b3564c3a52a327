package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ErrorQueueSize != 20 {
		t.Errorf("ErrorQueueSize = %d, want 20", cfg.ErrorQueueSize)
	}
	if cfg.ByteOrder != "big" {
		t.Errorf("ByteOrder = %q, want big", cfg.ByteOrder)
	}
	if !cfg.AutoResetContext {
		t.Error("expected AutoResetContext to default true")
	}
	if !cfg.Monitor.Enabled {
		t.Error("expected Monitor.Enabled to default true")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dispatcher.yaml")
	yamlContent := "error_queue_size: 5\nidn: \"ACME,BENCH1,SN42,2.0\"\nmonitor:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ErrorQueueSize != 5 {
		t.Errorf("ErrorQueueSize = %d, want 5", cfg.ErrorQueueSize)
	}
	if cfg.IDN != "ACME,BENCH1,SN42,2.0" {
		t.Errorf("IDN = %q", cfg.IDN)
	}
	if cfg.Monitor.Enabled {
		t.Error("expected Monitor.Enabled overridden to false")
	}
	// Fields absent from the YAML keep their DefaultConfig values.
	if cfg.ByteOrder != "big" {
		t.Errorf("ByteOrder = %q, want big (unset field keeps default)", cfg.ByteOrder)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/dispatcher.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("error_queue_size: [not, a, scalar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
