// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultTokenKey = "super-secret-unguessable-key-change-me-in-production-0123456789abcdef"

// minTokenKeyLength is the HS512 key size in bytes.
const minTokenKeyLength = 64

// Asset store drivers.
const (
	AssetStoreS3    = "s3"
	AssetStoreMinio = "minio"
	AssetStoreNone  = "none"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	TokenKey       string `mapstructure:"TOKEN_KEY"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	AssetStore         string        `mapstructure:"ASSET_STORE"`
	AssetBucket        string        `mapstructure:"ASSET_BUCKET"`
	AssetEndpoint      string        `mapstructure:"ASSET_ENDPOINT"`
	AssetRegion        string        `mapstructure:"ASSET_REGION"`
	AssetAccessKey     string        `mapstructure:"ASSET_ACCESS_KEY"`
	AssetSecretKey     string        `mapstructure:"ASSET_SECRET_KEY"`
	AssetUseSSL        bool          `mapstructure:"ASSET_USE_SSL"`
	AssetDeleteTimeout time.Duration `mapstructure:"ASSET_DELETE_TIMEOUT"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base config file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) || env == "production" || env == "prod" {
				return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.AssetStore = strings.ToLower(strings.TrimSpace(config.AssetStore))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5001")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "heartline")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("TOKEN_KEY", defaultTokenKey)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:4200,https://localhost:4200")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("ASSET_STORE", AssetStoreNone)
	v.SetDefault("ASSET_BUCKET", "heartline-photos")
	v.SetDefault("ASSET_ENDPOINT", "")
	v.SetDefault("ASSET_REGION", "auto")
	v.SetDefault("ASSET_ACCESS_KEY", "")
	v.SetDefault("ASSET_SECRET_KEY", "")
	v.SetDefault("ASSET_USE_SSL", true)
	v.SetDefault("ASSET_DELETE_TIMEOUT", 10*time.Second)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.TokenKey == "" {
		return errors.New("TOKEN_KEY is required")
	}

	switch c.AssetStore {
	case "", AssetStoreNone:
	case AssetStoreS3, AssetStoreMinio:
		if c.AssetBucket == "" {
			return errors.New("ASSET_BUCKET is required when ASSET_STORE is set")
		}
		if c.AssetStore == AssetStoreMinio && c.AssetEndpoint == "" {
			return errors.New("ASSET_ENDPOINT is required for the minio asset store")
		}
	default:
		return fmt.Errorf("unknown ASSET_STORE %q", c.AssetStore)
	}

	if c.AssetDeleteTimeout <= 0 {
		return errors.New("ASSET_DELETE_TIMEOUT must be positive")
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.TokenKey == defaultTokenKey {
			return errors.New("TOKEN_KEY must be changed from the default value in production")
		}
		if len(c.TokenKey) < minTokenKeyLength {
			return fmt.Errorf("TOKEN_KEY must be at least %d characters in production", minTokenKeyLength)
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.TokenKey) < minTokenKeyLength {
		log.Printf("WARNING: TOKEN_KEY is shorter than %d characters. HS512 signing needs a longer key in production.", minTokenKeyLength)
	}

	return nil
}
