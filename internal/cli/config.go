package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lockrank/pkg/analysis"
)

// Cache backend names accepted in the configuration file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendMongo = "mongo"
	CacheBackendNone  = "none"
)

// configFilename is the configuration file name searched for.
const configFilename = "lockrank.toml"

// Config is the TOML configuration for the CLI and server.
//
// Example:
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[analysis]
//	damping = 0.85
//	max_iterations = 100
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory (file backend only).
	Dir string `toml:"dir"`

	// RedisURL is the redis:// connection URL (redis backend only).
	RedisURL string `toml:"redis_url"`

	// MongoURI, MongoDatabase, and MongoCollection configure the mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AnalysisConfig overrides analysis defaults.
type AnalysisConfig struct {
	Damping       float64 `toml:"damping"`
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max_iterations"`
	Sequential    bool    `toml:"sequential"`
}

// Options converts the configuration into analysis options, filling
// unset fields with the standard defaults.
func (a AnalysisConfig) Options() analysis.Options {
	opts := analysis.DefaultOptions()
	if a.Damping != 0 {
		opts.PageRank.Damping = a.Damping
	}
	if a.Tolerance != 0 {
		opts.PageRank.Tolerance = a.Tolerance
	}
	if a.MaxIterations != 0 {
		opts.PageRank.MaxIterations = a.MaxIterations
	}
	opts.Parallel = !a.Sequential
	return opts
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Backend: CacheBackendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the TOML configuration from path. When path is empty
// the standard locations are searched: ./lockrank.toml, then
// $XDG_CONFIG_HOME/lockrank/lockrank.toml (~/.config/lockrank/lockrank.toml).
// A missing file is not an error; defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// validate checks backend selection and its required settings.
func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", CacheBackendFile, CacheBackendNone:
		if c.Cache.Backend == "" {
			c.Cache.Backend = CacheBackendFile
		}
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend %q requires redis_url", c.Cache.Backend)
		}
	case CacheBackendMongo:
		if c.Cache.MongoURI == "" {
			return fmt.Errorf("cache backend %q requires mongo_uri", c.Cache.Backend)
		}
		if c.Cache.MongoDatabase == "" {
			c.Cache.MongoDatabase = appName
		}
		if c.Cache.MongoCollection == "" {
			c.Cache.MongoCollection = "cache"
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return nil
}

// findConfig returns the first configuration file found in the standard
// locations, or "".
func findConfig() string {
	if _, err := os.Stat(configFilename); err == nil {
		return configFilename
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	candidate := filepath.Join(configHome, appName, configFilename)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
