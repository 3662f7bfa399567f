package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wayfare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
log_level: debug
server:
  addr: ":9000"
  rasa_addr: ":5055"
vocabulary: [Dhaka, Paris]
store:
  driver: redis
  redis:
    addr: "redis:6379"
    db: 2
    ttl: 1h
session:
  lock_ttl: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, ":5055", cfg.Server.RasaAddr)
	assert.Equal(t, []string{"Dhaka", "Paris"}, cfg.Vocabulary)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, 5*time.Second, cfg.Session.LockTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, ".wayfare/conversations", cfg.Store.Path)
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "servr:\n  addr: \":1\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "servr")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")

	t.Setenv("WAYFARE_SERVER_ADDR", ":7000")
	t.Setenv("WAYFARE_VOCABULARY", " Tokyo, Dubai ,,")
	t.Setenv("WAYFARE_STORE_DRIVER", "file")
	t.Setenv("WAYFARE_STORE_PATH", "/tmp/convs")
	t.Setenv("WAYFARE_LOCK_TTL", "2s")
	t.Setenv("WAYFARE_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"Tokyo", "Dubai"}, cfg.Vocabulary)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "/tmp/convs", cfg.Store.Path)
	assert.Equal(t, 2*time.Second, cfg.Session.LockTTL)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WAYFARE_LOG_LEVEL=warn\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("WAYFARE_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("int", func(t *testing.T) {
		t.Setenv("WAYFARE_REDIS_DB", "two")
		_, err := Load("")
		assert.ErrorContains(t, err, "WAYFARE_REDIS_DB")
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("WAYFARE_LOCK_TTL", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "WAYFARE_LOCK_TTL")
	})
}

func TestValidate(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: "Driver"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LogLevel"},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: "Addr"},
		{name: "redis without addr", mutate: func(c *Config) {
			c.Store.Driver = "redis"
			c.Store.Redis.Addr = ""
		}, wantErr: "store.redis.addr"},
		{name: "file without path", mutate: func(c *Config) {
			c.Store.Driver = "file"
			c.Store.Path = ""
		}, wantErr: "store.path"},
		{name: "valid key", mutate: func(c *Config) { c.Store.EncryptionKey = key }},
		{name: "short key", mutate: func(c *Config) {
			c.Store.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
		}, wantErr: "32 bytes"},
		{name: "blank city", mutate: func(c *Config) { c.Vocabulary = []string{"Paris", ""} }, wantErr: "Vocabulary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEncryptionKey(t *testing.T) {
	cfg := Default()
	key, err := cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Nil(t, key)

	raw := []byte(strings.Repeat("x", 32))
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(raw)
	key, err = cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}
