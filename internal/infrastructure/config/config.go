package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SessionScope selects how long issued sessions outlive the login:
	// "persistent" keeps them for the full TTL, "tab" ties them to the
	// client's browsing session.
	SessionScope string        `env:"SESSION_SCOPE, default=persistent"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`

	// AuthMode "open" accepts any well-formed credentials; "directory"
	// checks them against the registered user directory.
	AuthMode string `env:"AUTH_MODE, default=open"`

	// StorageBackend "memory" runs self-contained; "external" uses MongoDB
	// and Redis.
	StorageBackend string `env:"STORAGE_BACKEND, default=memory"`
	SeedDemoData   bool   `env:"SEED_DEMO_DATA,  default=true"`

	ReportWorkers int `env:"REPORT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
