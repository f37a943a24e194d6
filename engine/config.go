package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config drives the rpinfo tool. It is read from a TOML file.
type Config struct {
	// Level of the engine logger: debug, info, warn, error or fatal.
	LogLevel string `toml:"log_level"`
	// Directory scanned (recursively) for .rpass descriptions.
	AssetsDir string `toml:"assets_dir"`
	// Keep running and report again whenever a description changes.
	Watch bool `toml:"watch"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		AssetsDir: "assets",
		Watch:     false,
	}
}

// LoadConfig reads path on top of the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
