package initializers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CartStoreAuto     = "auto"
	CartStoreRedis    = "redis"
	CartStoreDatabase = "database"
	CartStoreMemory   = "memory"
)

type Config struct {
	Port           string
	Env            string
	DBDriver       string
	DatabaseURL    string
	RedisURL       string
	CartStore      string
	CartTTL        time.Duration
	CacheTTL       time.Duration
	JWTSecret      string
	AdminAuth      bool
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins []string
	SeedDatabase   bool

	S3Bucket          string
	S3Prefix          string
	AWSRegion         string
	AWSEndpoint       string
	AWSAccessKeyID    string
	AWSSecretAccessKey string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	ContactFrom  string
	ContactTo    string
}

// LoadEnv loads .env when present. A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// LoadConfig reads the environment into a Config and checks it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CartStore:      strings.ToLower(getEnv("CART_STORE", CartStoreAuto)),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		S3Bucket:           os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:           getEnv("AWS_S3_PREFIX", "products/"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ContactFrom:  os.Getenv("CONTACT_FROM"),
		ContactTo:    os.Getenv("CONTACT_TO"),
	}

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AdminAuth, err = getBool("ADMIN_AUTH", true); err != nil {
		return nil, err
	}
	if cfg.SeedDatabase, err = getBool("SEED_DATABASE", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	switch c.CartStore {
	case CartStoreAuto, CartStoreRedis, CartStoreDatabase, CartStoreMemory:
	default:
		return fmt.Errorf("CART_STORE must be auto, redis, database or memory, got %q", c.CartStore)
	}
	if c.CartStore == CartStoreRedis && c.RedisURL == "" {
		return fmt.Errorf("CART_STORE=redis needs REDIS_URL")
	}
	if c.AdminAuth && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_AUTH is enabled")
	}
	return nil
}

// ResolvedCartStore turns "auto" into redis or database.
func (c *Config) ResolvedCartStore() string {
	if c.CartStore != CartStoreAuto {
		return c.CartStore
	}
	if c.RedisURL != "" {
		return CartStoreRedis
	}
	return CartStoreDatabase
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
