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

	// JWTSecret signs session tokens. Rotating it invalidates every
	// outstanding token at once.
	JWTSecret string `env:"JWT_SECRET, required"`
	// EncryptionKey is the hex-encoded 256-bit master key for the credential
	// vault. Rotating it makes existing credential records undecryptable.
	EncryptionKey string `env:"ENCRYPTION_KEY, required"`

	Mongo MongoConfig
	Redis RedisConfig
	Batch BatchConfig
	CORS  CORSConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=aitrader"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// BatchConfig controls the periodic trading batch run.
type BatchConfig struct {
	Interval      time.Duration `env:"BATCH_INTERVAL,        default=1h"`
	Workers       int           `env:"BATCH_WORKERS,         default=4"`
	TenantTimeout time.Duration `env:"BATCH_TENANT_TIMEOUT,  default=2m"`
}

// CORSConfig is the explicit CORS policy; there is no ambient header state.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
