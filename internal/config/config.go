package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Panel struct {
	Bus     string `yaml:"bus"` // i2c bus name, e.g. "1"
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Rotated bool   `yaml:"rotated"`
}

type Settings struct {
	Backend string `yaml:"backend"` // "memory" | "file" | "sqlite"
	Path    string `yaml:"path"`
}

type Battery struct {
	Path  string `yaml:"path"` // sysfs power_supply dir
	PollS int    `yaml:"poll_s"`
}

type Config struct {
	Platform string `yaml:"platform"`
	Driver   string `yaml:"driver"` // "png" | "panel" | "none"
	Addr     string `yaml:"addr"`
	Assets   string `yaml:"assets,omitempty"`
	OutDir   string `yaml:"out_dir,omitempty"`
	Clock24h bool   `yaml:"clock_24h"`
	LogLevel string `yaml:"log_level,omitempty"`

	Settings Settings `yaml:"settings"`
	Panel    Panel    `yaml:"panel,omitempty"`
	Battery  Battery  `yaml:"battery,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
