package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// OpenFinance holds connection settings for the Jordan Open Finance gateway.
type OpenFinance struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	APIKey       string
	Sandbox      bool
}

// Config captures application runtime configuration loaded from the
// environment (plus an optional .env file in the working directory).
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	DatabaseURL      string
	RedisURL         string
	AMQPURL          string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	ShutdownPeriod   time.Duration
	IdempotencyTTL   time.Duration
	AMLThresholdFils int64
	OpenFinance      OpenFinance
}

// Load reads configuration through viper and validates required values.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_NAME", "DinarPay")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("AML_THRESHOLD_FILS", int64(10_000_000))
	v.SetDefault("OPEN_FINANCE_BASE_URL", "https://sandbox.jopacc.com")
	v.SetDefault("OPEN_FINANCE_SANDBOX", true)

	// The .env file is optional; environment variables alone are enough.
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		AppName:          v.GetString("APP_NAME"),
		AppEnv:           strings.ToLower(v.GetString("APP_ENV")),
		Port:             v.GetString("PORT"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		AMQPURL:          v.GetString("AMQP_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		AMLThresholdFils: v.GetInt64("AML_THRESHOLD_FILS"),
		OpenFinance: OpenFinance{
			BaseURL:      v.GetString("OPEN_FINANCE_BASE_URL"),
			ClientID:     v.GetString("OPEN_FINANCE_CLIENT_ID"),
			ClientSecret: v.GetString("OPEN_FINANCE_CLIENT_SECRET"),
			APIKey:       v.GetString("OPEN_FINANCE_API_KEY"),
			Sandbox:      v.GetBool("OPEN_FINANCE_SANDBOX"),
		},
	}

	var err error
	if cfg.AccessTokenTTL, err = parseDuration(v, "ACCESS_TOKEN_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDuration(v, "IDEMPOTENCY_TTL"); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
