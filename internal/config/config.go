package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable process configuration, loaded once at startup and
// passed by reference into the components that need it.
type Config struct {
	Port     string     `mapstructure:"port"`
	DBPath   string     `mapstructure:"db_path"`
	LogLevel string     `mapstructure:"log_level"`
	Auth     AuthConfig `mapstructure:"auth"`
}

// AuthConfig holds the session-token settings.
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	CookieName string        `mapstructure:"cookie_name"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

const (
	defaultPort       = "8080"
	defaultDBPath     = "app.db"
	defaultLogLevel   = "info"
	defaultCookieName = "auth_token"
	defaultTokenTTL   = 7 * 24 * time.Hour
)

// Load reads configs/config.yml (optional) and ITEMTRACK_* environment
// overrides into a Config. The signing key has no default: running without
// one would make every deployment share a guessable secret.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")

	v.SetDefault("port", defaultPort)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("auth.cookie_name", defaultCookieName)
	v.SetDefault("auth.token_ttl", defaultTokenTTL)
	// registered so the env override is visible to Unmarshal
	v.SetDefault("auth.signing_key", "")

	v.SetEnvPrefix("itemtrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file is fine; env vars and defaults apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Auth.SigningKey == "" {
		return nil, errors.New("auth.signing_key is required (set ITEMTRACK_AUTH_SIGNING_KEY)")
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	return &cfg, nil
}
