package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. ARTESANATO_API_URL or ARTESANATO_SESSION_BACKEND.
const EnvPrefix = "ARTESANATO"

// Session backends understood by Load.
const (
	SessionBackendFile   = "file"
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all client configuration
type Config struct {
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
}

// APIConfig holds settings for the marketplace backend
type APIConfig struct {
	URL             string
	Timeout         time.Duration
	RateLimit       float64 // requests per second, 0 disables limiting
	Burst           int
	Discover        bool // browse mDNS when URL is not set explicitly
	DiscoverTimeout time.Duration
}

// SessionConfig selects where login identifiers are stored
type SessionConfig struct {
	Backend string // file, memory, redis
	File    string
}

// RedisConfig holds Redis connection settings for the redis session backend
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	File  string
}

// DefaultAPIURL is the backend address used when nothing else is configured.
const DefaultAPIURL = "http://localhost:3000"

// Load reads configuration from the config file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with ARTESANATO_ prefix (e.g., ARTESANATO_API_URL)
// 2. path, or config.yaml in the config directory when path is empty
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(strings.TrimSuffix(configFile, ".yaml"))
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		API: APIConfig{
			URL:             v.GetString("api.url"),
			Timeout:         v.GetDuration("api.timeout"),
			RateLimit:       v.GetFloat64("api.rate_limit"),
			Burst:           v.GetInt("api.burst"),
			Discover:        v.GetBool("api.discover"),
			DiscoverTimeout: v.GetDuration("api.discover_timeout"),
		},
		Session: SessionConfig{
			Backend: v.GetString("session.backend"),
			File:    v.GetString("session.file"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) error {
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = 1
	}
	if cfg.API.DiscoverTimeout == 0 {
		cfg.API.DiscoverTimeout = 3 * time.Second
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = SessionBackendFile
	}
	if cfg.Session.File == "" {
		p, err := DefaultSessionPath()
		if err != nil {
			return fmt.Errorf("failed to resolve session file: %w", err)
		}
		cfg.Session.File = p
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "artesanato:session:"
	}
	return nil
}

// ResolvedAPIURL returns the configured backend URL, or the default when
// none is configured.
func (c *Config) ResolvedAPIURL() string {
	if c.API.URL == "" {
		return DefaultAPIURL
	}
	return c.API.URL
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.URL != "" {
		u, err := url.Parse(c.API.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.url must be an absolute URL, got %q", c.API.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api.url scheme must be http or https, got %q", u.Scheme)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit cannot be negative")
	}
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("session.backend must be one of file, memory, redis; got %q", c.Session.Backend)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db cannot be negative")
	}
	return nil
}
