package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "artesanato") {
		t.Errorf("GetConfigDir() = %v, should contain 'artesanato'", configDir)
	}

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		if os.Getenv("XDG_CONFIG_HOME") == "" && !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDirHonorsXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "artesanato"), got)
}

func TestLoad(t *testing.T) {
	isolate := func(t *testing.T) {
		t.Helper()
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		for _, k := range []string{
			"ARTESANATO_API_URL", "ARTESANATO_API_TIMEOUT", "ARTESANATO_API_RATE_LIMIT",
			"ARTESANATO_SESSION_BACKEND", "ARTESANATO_SESSION_FILE", "ARTESANATO_REDIS_ADDR",
			"ARTESANATO_LOG_LEVEL",
		} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when nothing is configured", func(t *testing.T) {
		isolate(t)

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "", cfg.API.URL)
		assert.Equal(t, DefaultAPIURL, cfg.ResolvedAPIURL())
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
		assert.True(t, strings.HasSuffix(cfg.Session.File, "session.yaml"))
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("loads values from environment variables with ARTESANATO prefix", func(t *testing.T) {
		isolate(t)
		t.Setenv("ARTESANATO_API_URL", "https://mirage.example:8443")
		t.Setenv("ARTESANATO_API_TIMEOUT", "2s")
		t.Setenv("ARTESANATO_SESSION_BACKEND", "memory")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "https://mirage.example:8443", cfg.ResolvedAPIURL())
		assert.Equal(t, 2*time.Second, cfg.API.Timeout)
		assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	})

	t.Run("reads an explicit yaml file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "custom.yaml")
		content := "api:\n  url: http://10.0.0.5:3000\n  rate_limit: 2.5\nsession:\n  backend: redis\nredis:\n  addr: cache:6379\n  db: 3\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://10.0.0.5:3000", cfg.API.URL)
		assert.InDelta(t, 2.5, cfg.API.RateLimit, 0.0001)
		assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
		assert.Equal(t, 3, cfg.Redis.DB)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  url: http://from-file:3000\n"), 0600))
		t.Setenv("ARTESANATO_API_URL", "http://from-env:3000")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env:3000", cfg.API.URL)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		isolate(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:     APIConfig{Timeout: time.Second},
			Session: SessionConfig{Backend: SessionBackendFile},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"https url", func(c *Config) { c.API.URL = "https://api.mirage.example" }, false},
		{"relative url", func(c *Config) { c.API.URL = "/produtos" }, true},
		{"ftp scheme", func(c *Config) { c.API.URL = "ftp://host" }, true},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, true},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, true},
		{"unknown backend", func(c *Config) { c.Session.Backend = "sqlite" }, true},
		{"negative redis db", func(c *Config) { c.Redis.DB = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
