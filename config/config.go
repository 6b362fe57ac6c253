package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// Default values used outside production
const (
	DefaultSessionSecret = "dev-session-secret-change-me"
	DefaultUploadRoot    = "static/uploads"
)

// DefaultAllowedExtensions is the single upload allow-list shared by pictures and attachments.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "pdf", "doc", "docx", "txt", "zip"}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration

	// Upload configuration
	UploadRoot        string
	StorageBackend    string
	S3Bucket          string
	S3Region          string
	S3Prefix          string
	AllowedExtensions []string

	// HTTP behaviour
	AllowedOrigins []string
	LoginRateLimit int
	LogLevel       string
}

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg, env)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCommon reads the non-sensitive settings shared by every environment
func loadCommon(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "5000")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "seeek")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "seeek.db")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)

	cfg.UploadRoot = getEnv("UPLOAD_FOLDER", DefaultUploadRoot)
	cfg.StorageBackend = getEnv("STORAGE_BACKEND", "local")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Region = os.Getenv("AWS_REGION")
	cfg.S3Prefix = getEnv("S3_PREFIX", "uploads")
	cfg.AllowedExtensions = getEnvList("ALLOWED_EXTENSIONS", DefaultAllowedExtensions)

	cfg.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", []string{"*"})
	cfg.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", 10)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
}

// loadCIConfig loads configuration for CI where secrets arrive as environment variables
func loadCIConfig(cfg *Config) {
	loadCommon(cfg)
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.SessionSecret = os.Getenv("TEST_SESSION_SECRET")
}

// loadDevConfig loads configuration for development and test, reading .env when present
func loadDevConfig(cfg *Config, env Environment) {
	if env == Development {
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env file")
		}
	}

	loadCommon(cfg)
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD", "postgres")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD", "")
	cfg.SessionSecret = secretOrEnv("session_secret", "SESSION_SECRET", DefaultSessionSecret)
}

// loadProdConfig loads configuration for production; sensitive values come ONLY from Docker secrets
func loadProdConfig(cfg *Config) {
	loadCommon(cfg)
	cfg.DBUser = secretOrEnv("db_user", "DB_USER", cfg.DBUser)
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.SessionSecret = readSecret("session_secret")
}

// secretOrEnv prefers a Docker secret, then an environment variable, then the fallback
func secretOrEnv(secret, envKey, fallback string) string {
	if value := readSecret(secret); value != "" {
		return value
	}
	return getEnv(envKey, fallback)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer setting, using default", slog.String("key", key), slog.String("value", value))
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration setting, using default", slog.String("key", key), slog.String("value", value))
		return fallback
	}
	return d
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
