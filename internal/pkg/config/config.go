package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageRedis  = "redis"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=12h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// Storage selects the roster and task backend: memory or mongo.
	Storage string `env:"STORAGE, default=memory"`
	// SessionBackend selects where session slots live: memory or redis.
	SessionBackend string `env:"SESSION_BACKEND, default=memory"`
	// SeedFile overrides the embedded roster and task seed.
	SeedFile string `env:"SEED_FILE"`
	// SessionStaleFallback keeps a persisted session signed in when its email
	// has left the roster.
	SessionStaleFallback bool `env:"SESSION_STALE_FALLBACK, default=true"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=feedback_crm"`
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR,        default=localhost:6379"`
	DB         int           `env:"REDIS_DB,          default=0"`
	SessionTTL time.Duration `env:"REDIS_SESSION_TTL, default=168h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadContext(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadContext is Load without the panic, validating backend names.
func LoadContext(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}
	switch c.SessionBackend {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	return nil
}

// IsDevelopment enables pretty logs and the development JWT secret.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
