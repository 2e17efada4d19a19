// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles,
// optionally seeded from a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Asset providers accepted by ASSET_PROVIDER.
const (
	AssetProviderCloudinary = "cloudinary"
	AssetProviderS3         = "s3"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"3000"`

	// Database (PostgreSQL)
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns     int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	// Cache (Redis). Empty disables caching and distributed rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout must cover a full logo generation.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"180s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 50MB, data URLs are inlined)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"52428800"`

	// Chat completion API
	ChatAPIURL         string `env:"CHAT_API_URL" envDefault:"https://openrouter.ai/api/v1"`
	ChatAPIKey         string `env:"CHAT_API_KEY"`
	ChatModel          string `env:"CHAT_MODEL" envDefault:"deepseek/deepseek-chat"`
	ChatAppTitle       string `env:"CHAT_APP_TITLE" envDefault:"BrandFlow AI Assistant"`
	ChatDefaultReferer string `env:"CHAT_DEFAULT_REFERER" envDefault:"http://localhost:3001"`

	// Image generation API
	ImageAPIURL  string `env:"IMAGE_API_URL" envDefault:"https://api.openai.com/v1"`
	ImageAPIKey  string `env:"IMAGE_API_KEY"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
	ImageQuality string `env:"IMAGE_QUALITY" envDefault:"standard"`

	UpstreamTimeout        time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"90s"`
	MaxGeneratedImageBytes int64         `env:"MAX_GENERATED_IMAGE_BYTES" envDefault:"20971520"`

	// Asset hosting
	AssetProvider       string `env:"ASSET_PROVIDER" envDefault:"cloudinary"`
	AssetFolder         string `env:"ASSET_FOLDER" envDefault:"ai-branding"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3Region            string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint          string `env:"S3_ENDPOINT"`
	S3AccessKey         string `env:"S3_ACCESS_KEY"`
	S3SecretKey         string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL     string `env:"S3_PUBLIC_BASE_URL"`

	// Rate limiting of the AI endpoints
	RateLimitAIEnabled   bool `env:"RATE_LIMIT_AI_ENABLED" envDefault:"true"`
	RateLimitAIPerMinute int  `env:"RATE_LIMIT_AI_PER_MINUTE" envDefault:"10"`
	RateLimitAIBurst     int  `env:"RATE_LIMIT_AI_BURST" envDefault:"5"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL must not be empty"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT out of range: %d", c.AppPort))
	}
	switch c.AssetProvider {
	case AssetProviderCloudinary, AssetProviderS3:
	default:
		errs = append(errs, fmt.Errorf("ASSET_PROVIDER must be %q or %q, got %q",
			AssetProviderCloudinary, AssetProviderS3, c.AssetProvider))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RateLimitAIEnabled && c.RateLimitAIPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_AI_PER_MINUTE must be positive when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}

// Load reads an optional .env file, parses environment variables and
// returns a validated Config. Variables already set in the environment
// take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MigrationConfig is the subset of settings the migrate command needs.
type MigrationConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
}

// LoadMigration reads only the database settings, so migrations can run
// without the API secrets.
func LoadMigration() (*MigrationConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &MigrationConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
