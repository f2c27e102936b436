package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Env       string `validate:"required,oneof=local development staging production"`
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AWS       AWSConfig
	Reference ReferenceConfig
	Seed      SeedConfig
	Worker    WorkerConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/zookeepr?sslmode=disable)
	Host     string `validate:"required_without=URL"`
	Port     string `validate:"required_without=URL"`
	User     string `validate:"required_without=URL"`
	Password string
	DBName   string `validate:"required_without=URL"`
	SSLMode  string
	MaxConns int32 `validate:"gte=0"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `validate:"required"`
	Password string
	DB       int `validate:"gte=0"`
}

// AWSConfig holds AWS credentials and the attachments bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	Endpoint             string // optional, for S3-compatible stores (minio)
	AttachmentsBucket    string `validate:"required"`
	PresignExpireMinutes int    `validate:"gte=0"`
}

// ReferenceConfig controls caching of the seed-once reference tables.
type ReferenceConfig struct {
	CacheTTL time.Duration
}

// SeedConfig holds the bootstrap administrator account created by initdb.
type SeedConfig struct {
	AdminEmail     string `validate:"required,email"`
	AdminPassword  string `validate:"required,max=72"`
	AdminFirstname string
	AdminLastname  string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	RetryBackoff time.Duration
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Local reports whether the process runs in a developer environment.
func (c *Config) Local() bool {
	return c.Env == "local"
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	cfg := &Config{
		Env: getEnv("APP_ENV", "local"),
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "zookeepr"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", "ap-southeast-2"),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:             getEnv("AWS_S3_ENDPOINT", ""),
			AttachmentsBucket:    getEnv("AWS_S3_ATTACHMENTS_BUCKET", "zookeepr-attachments"),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Reference: ReferenceConfig{
			CacheTTL: getEnvDuration("REFERENCE_CACHE_TTL", time.Hour),
		},
		Seed: SeedConfig{
			AdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@zookeepr.org"),
			AdminPassword:  getEnv("SEED_ADMIN_PASSWORD", "password"),
			AdminFirstname: getEnv("SEED_ADMIN_FIRSTNAME", "Admin"),
			AdminLastname:  getEnv("SEED_ADMIN_LASTNAME", "User"),
		},
		Worker: WorkerConfig{
			RetryBackoff: getEnvDuration("WORKER_RETRY_BACKOFF", 10*time.Second),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings so startup fails fast on bad config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
