package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the optional TOML configuration file, read from
// ~/.config/dgmlkit/config.toml (or $XDG_CONFIG_HOME) unless a path is
// given explicitly. Everything in it has a flag or a sensible default, so
// the file itself is optional.
type Config struct {
	// Analyses enabled by default for every build.
	Analyses []string `toml:"analyses"`

	// Listen is the default address for the serve command.
	Listen string `toml:"listen"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the serve command's shared cache. An empty Addr
// disables Redis and falls back to the file cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures document persistence for the serve command. An
// empty URI falls back to the in-memory store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Listen: ":8080",
		Mongo: MongoConfig{
			Database:   appName,
			Collection: "graphs",
		},
	}
}

// configPath returns the default config file location using XDG standard.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return defaultConfig(), nil
		}
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
