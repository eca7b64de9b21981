package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is named explicitly.
const DefaultPath = "corkboard.yml"

// Config represents the top-level corkboard.yml configuration
type Config struct {
	Store     string        `yaml:"store"`               // Backend name: redis, sqlite or mem
	Namespace string        `yaml:"namespace,omitempty"` // Prefix applied to every key
	Redis     *RedisConfig  `yaml:"redis,omitempty"`
	SQLite    *SQLiteConfig `yaml:"sqlite,omitempty"`
	Log       *LogConfig    `yaml:"log,omitempty"`
}

// RedisConfig specifies how to reach the Redis backend
type RedisConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout,omitempty"` // Per-command deadline, e.g. "2s"
}

// SQLiteConfig specifies the SQLite backend's database file
type SQLiteConfig struct {
	Path    string `yaml:"path"`
	Timeout string `yaml:"timeout,omitempty"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level      string `yaml:"level,omitempty"`  // debug, info, warn or error
	Format     string `yaml:"format,omitempty"` // text or json
	Operations bool   `yaml:"operations"`       // Log every store round-trip at debug level
}

// Environment variables consulted by ApplyEnv.
const (
	EnvStore      = "CORKBOARD_STORE"
	EnvRedisURL   = "CORKBOARD_REDIS_URL"
	EnvSQLitePath = "CORKBOARD_SQLITE_PATH"
	EnvNamespace  = "CORKBOARD_NAMESPACE"
	EnvLogLevel   = "CORKBOARD_LOG_LEVEL"
	EnvLogFormat  = "CORKBOARD_LOG_FORMAT"
)

// Defaults applied by Validate.
const (
	DefaultStore     = "redis"
	DefaultRedisURL  = "redis://localhost:6379/0"
	DefaultSQLite    = "corkboard.db"
	DefaultTimeout   = 2 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Validate applies defaults and rejects unknown values
func (c *Config) Validate() error {
	if c.Store == "" {
		c.Store = DefaultStore
	}
	switch c.Store {
	case "redis", "sqlite", "mem":
	default:
		return fmt.Errorf("unsupported store: %s (must be 'redis', 'sqlite' or 'mem')", c.Store)
	}

	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Redis.URL == "" {
		c.Redis.URL = DefaultRedisURL
	}
	if _, err := parseTimeout(c.Redis.Timeout); err != nil {
		return fmt.Errorf("redis.timeout: %w", err)
	}

	if c.SQLite == nil {
		c.SQLite = &SQLiteConfig{}
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = DefaultSQLite
	}
	if _, err := parseTimeout(c.SQLite.Timeout); err != nil {
		return fmt.Errorf("sqlite.timeout: %w", err)
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn' or 'error')", c.Log.Level)
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	return nil
}

// ApplyEnv overrides fields from CORKBOARD_* variables that are set and non-empty.
// getenv is normally os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := getenv(EnvNamespace); v != "" {
		c.Namespace = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		c.Redis.URL = v
	}
	if v := getenv(EnvSQLitePath); v != "" {
		if c.SQLite == nil {
			c.SQLite = &SQLiteConfig{}
		}
		c.SQLite.Path = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		if c.Log == nil {
			c.Log = &LogConfig{}
		}
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		if c.Log == nil {
			c.Log = &LogConfig{}
		}
		c.Log.Format = v
	}
}

// Backend returns the kv backend name and parameters this configuration
// selects, in the form kv.Open expects. With log.operations set the backend
// is wrapped in the logging decorator.
func (c *Config) Backend() (string, map[string]any) {
	var conf map[string]any
	switch c.Store {
	case "redis":
		conf = map[string]any{"url": c.Redis.URL, "timeout": c.timeout(c.Redis.Timeout)}
	case "sqlite":
		conf = map[string]any{"path": c.SQLite.Path, "timeout": c.timeout(c.SQLite.Timeout)}
	default:
		conf = map[string]any{}
	}

	if c.Log != nil && c.Log.Operations {
		conf["type"] = c.Store
		return "logging", map[string]any{"nested": conf}
	}
	return c.Store, conf
}

func (c *Config) timeout(s string) time.Duration {
	d, err := parseTimeout(s)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// LoadDotEnv loads variables from the named .env files (".env" if none) into
// the process environment. Missing files are ignored; variables already set
// are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads corkboard.yml from path, applies environment overrides and
// validates the result. An empty path means DefaultPath, which may be absent;
// an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var config Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config.ApplyEnv(os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
