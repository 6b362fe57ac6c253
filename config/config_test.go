package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "test.db")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("ALLOWED_EXTENSIONS", "png, jpg ,,pdf")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "test.db", cfg.SQLitePath)
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "test-secret", cfg.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"png", "jpg", "pdf"}, cfg.AllowedExtensions)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "local", cfg.StorageBackend)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PASSWORD", "SESSION_SECRET", "ALLOWED_EXTENSIONS", "UPLOAD_FOLDER", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, DefaultSessionSecret, cfg.SessionSecret)
	assert.Equal(t, DefaultUploadRoot, cfg.UploadRoot)
	assert.Equal(t, DefaultAllowedExtensions, cfg.AllowedExtensions)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("from-secret\n"), 0o600))

	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := &Config{
		ServerPort:        "5000",
		DBDriver:          "postgres",
		DBHost:            "db",
		DBName:            "seeek",
		DBPassword:        "pw",
		SessionSecret:     DefaultSessionSecret,
		SessionTTL:        time.Hour,
		StorageBackend:    "s3",
		AllowedExtensions: DefaultAllowedExtensions,
	}

	err := ValidateConfig(cfg, Production)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "session_secret")
	assert.Contains(t, fields, "S3_BUCKET_NAME")

	cfg.SessionSecret = "a-very-long-production-session-secret-value"
	cfg.S3Bucket = "uploads"
	assert.NoError(t, ValidateConfig(cfg, Production))
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		ServerPort:        "5000",
		DBDriver:          "mongo",
		SessionSecret:     "x",
		SessionTTL:        time.Hour,
		StorageBackend:    "local",
		UploadRoot:        "uploads",
		AllowedExtensions: []string{"png"},
	}
	err := ValidateConfig(cfg, Development)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}
