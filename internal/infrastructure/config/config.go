package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token TokenConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// TokenConfig carries one secret and one expiry per token class. Expiries
// are expressed in seconds, matching the cookie max-age math downstream.
type TokenConfig struct {
	AccessSecret        string `env:"ACCESS_TOKEN_SECRET"`
	AccessExpirySec     int    `env:"ACCESS_TOKEN_EXPIRY,     default=300"`
	RefreshSecret       string `env:"REFRESH_TOKEN_SECRET"`
	RefreshExpirySec    int    `env:"REFRESH_TOKEN_EXPIRY,    default=1200"`
	ActivationSecret    string `env:"ACTIVATION_TOKEN_SECRET"`
	ActivationExpirySec int    `env:"ACTIVATION_TOKEN_EXPIRY, default=300"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=course_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AccessExpiry returns the access-token lifetime as a duration.
func (t TokenConfig) AccessExpiry() time.Duration {
	return time.Duration(t.AccessExpirySec) * time.Second
}

// RefreshExpiry returns the refresh-token lifetime as a duration.
func (t TokenConfig) RefreshExpiry() time.Duration {
	return time.Duration(t.RefreshExpirySec) * time.Second
}

// ActivationExpiry returns the activation-token lifetime as a duration.
func (t TokenConfig) ActivationExpiry() time.Duration {
	return time.Duration(t.ActivationExpirySec) * time.Second
}

// Production reports whether the service runs with production settings
// (secure cookies, JSON logs).
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
