package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig   = "CONSTELLATION_CONFIG"
	EnvAddr     = "CONSTELLATION_ADDR"
	EnvPlatform = "CONSTELLATION_PLATFORM"
	EnvLogLevel = "CONSTELLATION_LOG_LEVEL"
	EnvSettings = "CONSTELLATION_SETTINGS"
	Env24h      = "CONSTELLATION_24H"
)

// LoadDotEnv loads a .env file if present; a missing file is not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// ApplyEnv overrides c with any environment variables that are set.
func ApplyEnv(c *Config) {
	c.Addr = getEnv(EnvAddr, c.Addr)
	c.Platform = getEnv(EnvPlatform, c.Platform)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	if p := os.Getenv(EnvSettings); p != "" {
		if c.Settings.Backend == "" {
			c.Settings = SettingsFor(p)
		} else {
			c.Settings.Path = p
		}
	}
	c.Clock24h = getEnvBool(Env24h, c.Clock24h)
}

// ConfigPath returns the config file named by the environment, or def.
func ConfigPath(def string) string { return getEnv(EnvConfig, def) }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
