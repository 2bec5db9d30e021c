// Package config loads formkit service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrLoadingEnv    = errors.New("failed to load env file")
)

// Config holds the settings shared by cmd/formd and cmd/formcheck.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"formkit"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`

	HTTP  HTTPConfig
	Redis RedisConfig
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// RedisConfig is optional; an empty URL selects the in-memory email index.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
	// EmailSet names the Redis set holding registered emails.
	EmailSet string `env:"REDIS_EMAIL_SET" envDefault:"formkit:emails"`
}

// Load reads the given env files, or ./.env when none are given, and parses
// the environment into a Config. A missing default .env is not an error;
// explicitly named files must exist. Values already present in the
// environment take precedence over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, errors.Join(ErrLoadingEnv, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if cfg.HTTP.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("%w: MAX_BODY_BYTES must be positive", ErrParsingConfig)
	}
	return cfg, nil
}

// IsProduction reports whether AppEnv names a production environment.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
