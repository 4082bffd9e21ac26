package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/velaflam/storefront/pkg/config"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"velaflam"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"velaflam_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"velaflam"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session store TTLs (default: 30 days, matching how long a browser
	// would realistically keep its local state)
	CartTTL     time.Duration `env:"CART_TTL" envDefault:"720h"`
	WishlistTTL time.Duration `env:"WISHLIST_TTL" envDefault:"720h"`

	// Session cookie lifetime
	SessionCookieTTL time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"8760h"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Reviews: when true, new reviews stay hidden until approved by an admin.
	ReviewsRequireModeration bool `env:"REVIEWS_REQUIRE_MODERATION" envDefault:"false"`

	// Admin console
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiry     time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@velaflam.local"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("cart TTL must be positive: %s", c.CartTTL)
	}
	if c.WishlistTTL <= 0 {
		return fmt.Errorf("wishlist TTL must be positive: %s", c.WishlistTTL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	return nil
}
