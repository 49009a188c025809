package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Cache backends.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Store backends.
const (
	storeBackendMemory = "memory"
	storeBackendMongo  = "mongo"
)

// Config holds the server configuration loaded from a TOML file.
type Config struct {
	Server serverConfig `toml:"server"`
	Cache  cacheConfig  `toml:"cache"`
	Store  storeConfig  `toml:"store"`
}

type serverConfig struct {
	Addr string `toml:"addr"`
}

type cacheConfig struct {
	Backend  string `toml:"backend"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type storeConfig struct {
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultConfig returns the configuration used when no file is given:
// local file cache, in-memory store.
func defaultConfig() Config {
	return Config{
		Server: serverConfig{Addr: ":8080"},
		Cache:  cacheConfig{Backend: cacheBackendFile},
		Store: storeConfig{
			Backend:    storeBackendMemory,
			Database:   appName,
			Collection: "diagrams",
		},
	}
}

// loadConfig reads a TOML configuration file, applying defaults for
// anything the file leaves unset.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendNone:
	case cacheBackendRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache backend %q requires addr", cacheBackendRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case storeBackendMemory:
	case storeBackendMongo:
		if c.Store.URI == "" {
			return fmt.Errorf("store backend %q requires uri", storeBackendMongo)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}
