package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, e := range v {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(cfg *Config, env Environment) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBPassword == "" {
			add("db_password", "is required for the postgres driver")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.SessionSecret == "" {
		add("session_secret", "is required")
	}
	if env == Production {
		if cfg.SessionSecret == DefaultSessionSecret {
			add("session_secret", "must be changed from the default value in production")
		}
		if len(cfg.SessionSecret) < 32 {
			add("session_secret", "must be at least 32 characters in production")
		}
	}
	if cfg.SessionTTL <= 0 {
		add("SESSION_TTL", "must be positive")
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.UploadRoot == "" {
			add("UPLOAD_FOLDER", "is required for local storage")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "is required for s3 storage")
		}
	default:
		add("STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend))
	}

	if len(cfg.AllowedExtensions) == 0 {
		add("ALLOWED_EXTENSIONS", "at least one extension is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
