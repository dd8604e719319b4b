// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// OCR providers.
const (
	OCRProviderRekognition = "rekognition"
	OCRProviderVision      = "vision"
)

// Config holds the full process configuration.
type Config struct {
	Port string

	Storage   StorageConfig
	OCR       OCRConfig
	Inference InferenceConfig
	Redis     RedisConfig
	Timeouts  TimeoutConfig

	MaxUploadSize      int
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

// StorageConfig holds the S3 bucket and credentials. All fields except Endpoint are required.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // optional, for MinIO or localstack
}

// OCRConfig selects the text detection backend.
type OCRConfig struct {
	Provider string
}

// InferenceConfig holds the Gemini settings. An empty APIKey disables inference.
type InferenceConfig struct {
	APIKey   string
	Model    string
	CacheTTL time.Duration
}

// RedisConfig holds the optional cache connection. An empty Host disables caching.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// TimeoutConfig bounds every outbound call.
type TimeoutConfig struct {
	Storage    time.Duration
	Extraction time.Duration
	Inference  time.Duration
	HTTPClient time.Duration
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Storage: StorageConfig{
			AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ACCESS_SECRET_KEY"),
			Region:          os.Getenv("REGION"),
			Bucket:          os.Getenv("BUCKET_SOURCE"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
		},
		OCR: OCRConfig{
			Provider: strings.ToLower(getEnvOrDefault("OCR_PROVIDER", OCRProviderRekognition)),
		},
		Inference: InferenceConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Model:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			CacheTTL: parseDurationOrDefault("LOCATION_CACHE_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Timeouts: TimeoutConfig{
			Storage:    parseDurationOrDefault("STORAGE_TIMEOUT", 15*time.Second),
			Extraction: parseDurationOrDefault("EXTRACTION_TIMEOUT", 20*time.Second),
			Inference:  parseDurationOrDefault("INFERENCE_TIMEOUT", 30*time.Second),
			HTTPClient: parseDurationOrDefault("HTTP_CLIENT_TIMEOUT", 60*time.Second),
		},
		MaxUploadSize:      parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings. Missing storage settings are fatal.
func (c *Config) Validate() error {
	var missing []string
	if c.Storage.AccessKeyID == "" {
		missing = append(missing, "ACCESS_KEY_ID")
	}
	if c.Storage.SecretAccessKey == "" {
		missing = append(missing, "ACCESS_SECRET_KEY")
	}
	if c.Storage.Region == "" {
		missing = append(missing, "REGION")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "BUCKET_SOURCE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing storage settings: %s", strings.Join(missing, ", "))
	}

	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	switch c.OCR.Provider {
	case OCRProviderRekognition, OCRProviderVision:
	default:
		return fmt.Errorf("unknown OCR_PROVIDER: %q", c.OCR.Provider)
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be > 0")
	}
	return nil
}

// CacheEnabled reports whether a Redis host was supplied.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Host != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
