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

	Auth  AuthConfig
	HTTP  HTTPConfig
	Mongo MongoConfig
	Redis RedisConfig
	Blob  BlobConfig
}

type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET, required"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET, required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL,     default=15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL,    default=240h"`
	// RateLimit is the number of requests per second allowed per client on
	// the login, register and refresh endpoints.
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
}

type HTTPConfig struct {
	CookieSecure bool `env:"COOKIE_SECURE, default=true"`
	// CORSOrigins must list explicit origins. CORS runs with credentials, so
	// "*" is rejected by LoadFrom.
	CORSOrigins []string `env:"CORS_ORIGIN, default=http://localhost:3000"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vidtube"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=3s"`
	// ViewWindow is how long a viewer's repeated reads of a video count once.
	ViewWindow time.Duration `env:"VIEW_DEDUP_WINDOW, default=1h"`
}

type BlobConfig struct {
	Dir     string `env:"BLOB_DIR,      default=./public/uploads"`
	BaseURL string `env:"BLOB_BASE_URL, default=http://localhost:8080/uploads"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads configuration through lookuper, so tests can supply a map.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Auth.AccessTokenSecret == cfg.Auth.RefreshTokenSecret {
		return nil, fmt.Errorf("config: access and refresh token secrets must differ")
	}
	for _, origin := range cfg.HTTP.CORSOrigins {
		if origin == "*" {
			return nil, fmt.Errorf("config: CORS_ORIGIN must list explicit origins when cookies are used")
		}
	}
	return &cfg, nil
}
