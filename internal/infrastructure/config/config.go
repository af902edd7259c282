package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const defaultTokenFile = ".epicevents/token"

type Config struct {
	Env             string `env:"CRM_ENV,          default=development"`
	LogLevel        string `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool   `env:"LOG_PRETTY,       default=true"`
	TokenFile       string `env:"TOKEN_FILE"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Secret signs session tokens. It is read once per process.
	Secret     string        `env:"SESSION_SECRET, required"`
	TTL        time.Duration `env:"SESSION_TTL,    default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,    default=10"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=epic_events"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig configures the login lockout guard. An empty Addr disables it.
type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR"`
	DB            int           `env:"REDIS_DB,                  default=0"`
	LockThreshold int           `env:"LOGIN_FAIL_LOCK_THRESHOLD, default=5"`
	LockTTL       time.Duration `env:"LOGIN_FAIL_LOCK_TTL,       default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Redis.LockThreshold < 1 {
		return nil, fmt.Errorf("config: LOGIN_FAIL_LOCK_THRESHOLD must be positive, got %d", cfg.Redis.LockThreshold)
	}
	return &cfg, nil
}

// TokenPath returns the file holding the CLI session token, expanding a
// leading "~/" and defaulting to ~/.epicevents/token.
func (c *Config) TokenPath() (string, error) {
	path := c.TokenFile
	if path != "" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve token file: %w", err)
	}
	if path == "" {
		return filepath.Join(home, defaultTokenFile), nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
