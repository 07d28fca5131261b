// ABOUTME: Application configuration loaded from file, .env, and environment
// ABOUTME: Uses viper with FOMO_ prefixed env vars and XDG default locations
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppName names the XDG directories and the config file.
const AppName = "fomo"

// Storage tiers.
const (
	TierFile     = "file"
	TierKV       = "kv"
	TierRemote   = "remote"
	TierDatabase = "database"
	TierRedis    = "redis"
)

// Auth modes.
const (
	AuthNone       = "none"
	AuthMockCookie = "mock-cookie"
	AuthSupabase   = "supabase"
)

type Config struct {
	Environment string        `mapstructure:"environment"`
	UserID      string        `mapstructure:"user_id"`
	Server      ServerConfig  `mapstructure:"server"`
	Storage     StorageConfig `mapstructure:"storage"`
	Auth        AuthConfig    `mapstructure:"auth"`
	Log         LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type StorageConfig struct {
	Tier    string `mapstructure:"tier"`
	DataDir string `mapstructure:"data_dir"`

	RemoteURL   string `mapstructure:"remote_url"`
	RemoteToken string `mapstructure:"remote_token"`

	KVPath     string `mapstructure:"kv_path"`
	KVSync     bool   `mapstructure:"kv_sync"`
	KVHost     string `mapstructure:"kv_host"`
	KVAutoSync bool   `mapstructure:"kv_auto_sync"`

	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseDSN    string `mapstructure:"database_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type AuthConfig struct {
	Mode          string `mapstructure:"mode"`
	DefaultUserID string `mapstructure:"default_user_id"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("user_id", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("storage.tier", TierFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.remote_url", "http://localhost:8080")
	v.SetDefault("storage.remote_token", "")
	v.SetDefault("storage.kv_path", filepath.Join(xdg.DataHome, AppName, "kv"))
	v.SetDefault("storage.kv_sync", false)
	v.SetDefault("storage.kv_host", "cloud.charm.sh")
	v.SetDefault("storage.kv_auto_sync", true)
	v.SetDefault("storage.database_driver", "sqlite3")
	v.SetDefault("storage.database_dsn", filepath.Join(xdg.DataHome, AppName, "fomo.db"))
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("auth.mode", AuthNone)
	v.SetDefault("auth.default_user_id", "local-user")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration. An explicit file path must exist; otherwise
// fomo.yaml is looked up in the working directory and the XDG config home
// and may be absent. Values from a .env file in the working directory are
// exported before env vars are read.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FOMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.Tier {
	case TierFile, TierKV, TierRemote, TierDatabase, TierRedis:
	default:
		return fmt.Errorf("invalid storage tier %q (valid: file, kv, remote, database, redis)", c.Storage.Tier)
	}

	switch c.Auth.Mode {
	case AuthNone, AuthMockCookie:
	case AuthSupabase:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required when auth.mode is supabase")
		}
	default:
		return fmt.Errorf("invalid auth mode %q (valid: none, mock-cookie, supabase)", c.Auth.Mode)
	}

	if strings.TrimSpace(c.Auth.DefaultUserID) == "" {
		return errors.New("auth.default_user_id must be a non-empty string")
	}
	return nil
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
