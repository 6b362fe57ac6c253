package testhelpers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/seeek/portfolio/backend/config"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/store"
	"github.com/seeek/portfolio/backend/internal/upload"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FixedTime is the clock used by test upload handlers
var FixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// NewUploadHandler returns a handler writing below a temporary directory, and that directory
func NewUploadHandler(t *testing.T) (*upload.Handler, string) {
	t.Helper()
	root := t.TempDir()
	fs, err := upload.NewLocalStore(root, "/static/uploads")
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}
	h := upload.NewHandler(fs, upload.NewExtensionSet(config.DefaultAllowedExtensions...), nil).
		WithClock(func() time.Time { return FixedTime })
	return h, root
}

// NewRedis starts an in-process Redis and returns a client connected to it
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// CreateTestUser inserts a user with the given password and an empty portfolio
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, mutate ...func(*models.User)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{Email: email, Password: string(hash)}
	for _, m := range mutate {
		m(user)
	}

	ctx := context.Background()
	if err := store.Users(db).InsertOne(ctx, user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	if err := store.Portfolios(db).InsertOne(ctx, models.NewPortfolio(email)); err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return user
}

// TextFile builds an upload from a string body
func TextFile(name, body string) *upload.File {
	return &upload.File{Filename: name, Size: int64(len(body)), Content: strings.NewReader(body)}
}

// Ptr returns a pointer to s
func Ptr(s string) *string {
	return &s
}
