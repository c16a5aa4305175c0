package demo

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the application configuration. It is constructed once at
// startup and passed by value; handlers never reach into a global
// settings store.
type Config struct {
	Address string        `yaml:"address"`
	Debug   bool          `yaml:"debug"`
	Message string        `yaml:"message"`
	Session SessionConfig `yaml:"session"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
	Cookie string `yaml:"cookie"`
	// TTL is the session lifetime in seconds.
	TTL int `yaml:"ttl"`
}

func DefaultConfig() Config {
	return Config{
		Address: ":3000",
		Message: "Hello world, from the configuration",
		Session: SessionConfig{
			// Demo-only secret; any deployment overrides it.
			Secret: "waltz-demo-0123456789abcdef-not-a-secret",
			Cookie: "waltz_session",
			TTL:    int(24 * time.Hour / time.Second),
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
