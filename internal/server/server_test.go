package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/config"
	"github.com/seeek/portfolio/backend/internal/testhelpers"
	"github.com/seeek/portfolio/backend/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ServerHost:        "localhost",
		ServerPort:        "0",
		SessionSecret:     "test-secret",
		SessionTTL:        time.Hour,
		UploadRoot:        t.TempDir(),
		StorageBackend:    "local",
		AllowedExtensions: config.DefaultAllowedExtensions,
		AllowedOrigins:    []string{"*"},
		LoginRateLimit:    10,
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	db := testhelpers.SetupTestDatabase(t)
	rdb, _ := testhelpers.NewRedis(t)

	files, err := NewFileStore(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &upload.LocalStore{}, files)

	srv, err := New(cfg, db, rdb, files, nil)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.UploadRoot, "pictures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadRoot, "pictures", "a.png"), []byte("png"), 0o644))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "Connected to database!"},
		{"/health", http.StatusOK, "healthy"},
		{"/metrics", http.StatusOK, "seeek_http_requests_total"},
		{UploadsPath + "/pictures/a.png", http.StatusOK, "png"},
		{"/web/profile/nobody", http.StatusNotFound, "User profile not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.body), w.Body.String())
		})
	}
}

func TestNewWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	files, err := NewFileStore(context.Background(), cfg)
	require.NoError(t, err)

	srv, err := New(cfg, testhelpers.SetupTestDatabase(t), nil, files, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/user/logout", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewFileStoreRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = "ftp"
	_, err := NewFileStore(context.Background(), cfg)
	assert.Error(t, err)

	cfg.StorageBackend = "s3"
	_, err = NewFileStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
}

func TestShutdownBeforeStart(t *testing.T) {
	cfg := testConfig(t)
	files, err := NewFileStore(context.Background(), cfg)
	require.NoError(t, err)
	srv, err := New(cfg, testhelpers.SetupTestDatabase(t), nil, files, nil)
	require.NoError(t, err)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
