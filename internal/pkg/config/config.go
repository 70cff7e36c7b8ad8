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

	// APIBase may be absolute or relative to PublicOrigin.
	APIBase      string        `env:"API_BASE,      default=/api"`
	PublicOrigin string        `env:"PUBLIC_ORIGIN, default=http://localhost:8080"`
	APITimeout   time.Duration `env:"API_TIMEOUT,   default=30s"`

	Session SessionConfig
	Roles   RolesConfig
	Search  SearchConfig
	IPFS    IPFSConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type SessionConfig struct {
	// Store selects the session backend: redis, mongo or memory.
	Store    string        `env:"SESSION_STORE,  default=memory"`
	Cookie   string        `env:"SESSION_COOKIE, default=ecolatam_sid"`
	TTL      time.Duration `env:"SESSION_TTL,    default=168h"`
	TokenKey string        `env:"TOKEN_KEY,      default=ecolatam_token"`
	UserKey  string        `env:"USER_KEY,       default=ecolatam_user"`
}

type RolesConfig struct {
	CheckTimeout time.Duration `env:"ROLE_CHECK_TIMEOUT, default=5s"`
}

type SearchConfig struct {
	CacheSize int           `env:"SEARCH_CACHE_SIZE, default=256"`
	CacheTTL  time.Duration `env:"SEARCH_CACHE_TTL,  default=1m"`
}

type IPFSConfig struct {
	APIBase string        `env:"IPFS_API_BASE, default=https://ipfs.ecolatam.com/api"`
	Timeout time.Duration `env:"IPFS_TIMEOUT,  default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecolatam_gateway"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the gateway runs behind TLS in production.
func (c *Config) Production() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and checks the session store name.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	switch cfg.Session.Store {
	case "redis", "mongo", "memory":
	default:
		return nil, fmt.Errorf("SESSION_STORE: unknown store %q", cfg.Session.Store)
	}
	return &cfg, nil
}
