package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PropertySetName != "snmp_auth" {
		t.Errorf("expected default property set 'snmp_auth', got %q", cfg.PropertySetName)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("expected poll interval 3s, got %v", cfg.PollInterval)
	}
	if cfg.PollAttempts != 30 {
		t.Errorf("expected 30 poll attempts, got %d", cfg.PollAttempts)
	}
	if !cfg.SkipVerify {
		t.Error("controllers run self-signed; skip_verify should default on")
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := DefaultConfig()
	cfg.DefaultProfile = "lab"
	cfg.PropertySetName = "lab-snmp"
	cfg.PollInterval = 5 * time.Second

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.DefaultProfile != "lab" {
		t.Errorf("expected profile 'lab', got %q", loaded.DefaultProfile)
	}
	if loaded.PropertySetName != "lab-snmp" {
		t.Errorf("expected property set 'lab-snmp', got %q", loaded.PropertySetName)
	}
	if loaded.PollInterval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", loaded.PollInterval)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadConfig() should return defaults for missing file, got error: %v", err)
	}
	if cfg.PropertySetName != "snmp_auth" {
		t.Errorf("expected defaults, got %q", cfg.PropertySetName)
	}
}
