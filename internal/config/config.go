// Package config loads the service configuration from an optional YAML file,
// a .env file and WAYFARE_* environment variables, in increasing precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WAYFARE_"

// Config holds application configuration.
type Config struct {
	LogLevel   string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Server     ServerConfig  `mapstructure:"server"`
	Vocabulary []string      `mapstructure:"vocabulary" validate:"omitempty,dive,required"`
	Store      StoreConfig   `mapstructure:"store"`
	Session    SessionConfig `mapstructure:"session"`
}

type ServerConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	RasaAddr string `mapstructure:"rasa_addr"`
}

type StoreConfig struct {
	Driver        string      `mapstructure:"driver" validate:"oneof=memory file redis"`
	Path          string      `mapstructure:"path"`
	EncryptionKey string      `mapstructure:"encryption_key" validate:"omitempty,base64"`
	Redis         RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type SessionConfig struct {
	LockTTL time.Duration `mapstructure:"lock_ttl" validate:"gte=0"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server:   ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Driver: "memory",
			Path:   ".wayfare/conversations",
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
		Session: SessionConfig{LockTTL: 30 * time.Second},
	}
}

// Load builds the configuration. path may be empty; a missing .env is fine.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.RasaAddr = getEnv("RASA_ADDR", cfg.Server.RasaAddr)
	if v := getEnv("VOCABULARY", ""); v != "" {
		cfg.Vocabulary = splitList(v)
	}
	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.Path = getEnv("STORE_PATH", cfg.Store.Path)
	cfg.Store.EncryptionKey = getEnv("STORE_ENCRYPTION_KEY", cfg.Store.EncryptionKey)
	cfg.Store.Redis.Addr = getEnv("REDIS_ADDR", cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Store.Redis.Prefix = getEnv("REDIS_PREFIX", cfg.Store.Redis.Prefix)

	var err error
	if cfg.Store.Redis.DB, err = getEnvAsInt("REDIS_DB", cfg.Store.Redis.DB); err != nil {
		return err
	}
	if cfg.Store.Redis.TTL, err = getEnvAsDuration("REDIS_TTL", cfg.Store.Redis.TTL); err != nil {
		return err
	}
	if cfg.Session.LockTTL, err = getEnvAsDuration("LOCK_TTL", cfg.Session.LockTTL); err != nil {
		return err
	}
	return nil
}

// Validate checks field constraints and the rules that span fields.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.Store.Driver {
	case "file":
		if c.Store.Path == "" {
			return errors.New("invalid configuration: store.path is required for the file driver")
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			return errors.New("invalid configuration: store.redis.addr is required for the redis driver")
		}
	}
	if _, err := c.EncryptionKey(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EncryptionKey decodes store.encryption_key. It returns nil when encryption
// is off.
func (c Config) EncryptionKey() ([]byte, error) {
	if c.Store.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.Store.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("store.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return value, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
