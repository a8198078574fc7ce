package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/catalog/pkg/config"
	"github.com/utafrali/catalog/pkg/database"
)

// Storage backends accepted by MEDIA_STORAGE.
const (
	StorageCloudinary = "cloudinary"
	StorageS3         = "s3"
	StorageMemory     = "memory"
)

// Postgres holds the database settings shared by the server and the
// migration tool.
type Postgres struct {
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"catalog"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"catalog"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// PostgresConfig converts the settings into a pool configuration.
func (p Postgres) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            p.PostgresHost,
		Port:            p.PostgresPort,
		User:            p.PostgresUser,
		Password:        p.PostgresPass,
		DBName:          p.PostgresDB,
		SSLMode:         p.PostgresSSL,
		MaxConns:        p.DBMaxConns,
		MinConns:        p.DBMinConns,
		MaxConnLifetime: time.Duration(p.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(p.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

func (p Postgres) validate() error {
	if p.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if p.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if p.PostgresPort < 1 || p.PostgresPort > 65535 {
		return fmt.Errorf("invalid POSTGRES_PORT: %d", p.PostgresPort)
	}
	return nil
}

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8001"`

	// MediaURL is the path prefix stored media names are served under.
	MediaURL string `env:"MEDIA_URL" envDefault:"/media/"`

	Postgres

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if err := cfg.Postgres.validate(); err != nil {
		return nil, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}

// MigrateConfig holds the configuration of the media migration tool.
type MigrateConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Postgres

	// MediaRoot defaults to <working dir>/media/products when empty.
	MediaRoot   string `env:"MEDIA_ROOT"`
	MediaFolder string `env:"MEDIA_FOLDER" envDefault:"products/"`
	Storage     string `env:"MEDIA_STORAGE" envDefault:"cloudinary"`

	// Cloudinary credentials, either as a single URL or as separate fields.
	CloudinaryURL       string `env:"CLOUDINARY_URL"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	// S3
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// MemoryBaseURL is the URL prefix of the in-memory backend.
	MemoryBaseURL string `env:"MEMORY_BASE_URL" envDefault:"https://media.invalid"`
}

// DryRun reports whether the selected backend keeps nothing, in which case
// database references must not be rewritten.
func (c *MigrateConfig) DryRun() bool {
	return c.Storage == StorageMemory
}

// LoadMigrate reads the migration tool configuration from the environment,
// after merging the given .env files.
func LoadMigrate(dotenv ...string) (*MigrateConfig, error) {
	cfg := &MigrateConfig{}
	if err := pkgconfig.LoadDotenv(cfg, dotenv...); err != nil {
		return nil, fmt.Errorf("load migrate config: %w", err)
	}
	if err := cfg.Postgres.validate(); err != nil {
		return nil, err
	}

	switch cfg.Storage {
	case StorageCloudinary:
		if cfg.CloudinaryURL == "" &&
			(cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "") {
			return nil, fmt.Errorf("CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("MEDIA_STORAGE must be one of: cloudinary, s3, memory, got %q", cfg.Storage)
	}
	return cfg, nil
}

// SeedConfig holds the configuration of the development seeder.
type SeedConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Postgres

	// MediaRoot defaults to <working dir>/media/products when empty.
	MediaRoot   string `env:"MEDIA_ROOT"`
	MediaFolder string `env:"MEDIA_FOLDER" envDefault:"products/"`

	SellerID         int64 `env:"SEED_SELLER_ID,required"`
	Products         int   `env:"SEED_PRODUCTS" envDefault:"50"`
	ImagesPerProduct int   `env:"SEED_IMAGES_PER_PRODUCT" envDefault:"3"`
}

// LoadSeed reads the seeder configuration from the environment, after
// merging the given .env files.
func LoadSeed(dotenv ...string) (*SeedConfig, error) {
	cfg := &SeedConfig{}
	if err := pkgconfig.LoadDotenv(cfg, dotenv...); err != nil {
		return nil, fmt.Errorf("load seed config: %w", err)
	}
	if err := cfg.Postgres.validate(); err != nil {
		return nil, err
	}
	if cfg.SellerID <= 0 {
		return nil, fmt.Errorf("SEED_SELLER_ID must be positive")
	}
	if cfg.Products < 0 || cfg.ImagesPerProduct < 0 {
		return nil, fmt.Errorf("SEED_PRODUCTS and SEED_IMAGES_PER_PRODUCT must not be negative")
	}
	return cfg, nil
}
