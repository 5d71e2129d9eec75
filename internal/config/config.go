package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the persisted tool configuration.
type Config struct {
	Theme           string        `toml:"theme"`
	DefaultProfile  string        `toml:"default_profile"`
	PropertySetName string        `toml:"property_set_name"`
	OutputFile      string        `toml:"output_file"`
	SkipVerify      bool          `toml:"skip_verify"`
	Workers         int           `toml:"workers"`
	PollAttempts    int           `toml:"poll_attempts"`
	PollInterval    time.Duration `toml:"-"`
	PollIntervalStr string        `toml:"poll_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:           "solarized-dark",
		DefaultProfile:  "",
		PropertySetName: "snmp_auth",
		OutputFile:      "snmp_keys_output.json",
		SkipVerify:      true,
		Workers:         4,
		PollAttempts:    30,
		PollInterval:    3 * time.Second,
		PollIntervalStr: "3s",
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.PollIntervalStr != "" {
		d, err := time.ParseDuration(cfg.PollIntervalStr)
		if err == nil {
			cfg.PollInterval = d
		}
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
