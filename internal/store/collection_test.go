package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUsers(t *testing.T) *Collection[models.User] {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewCollection[models.User](db, "users", "id", "email", "pseudonym", "first_name", "password")
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Discard,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestCollectionInsertAndFind(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h"}))
	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "b@x.com", Password: "h"}))

	got, err := users.FindOne(ctx, "email", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.NotEmpty(t, got.ID)

	all, err := users.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ok, err := users.Exists(ctx, "email", "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = users.FindOne(ctx, "email", "missing@x.com")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestCollectionFindOnEmptyTable(t *testing.T) {
	users := setupUsers(t)

	all, err := users.Find(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestCollectionInsertDuplicate(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h"}))
	err := users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCollectionUpdateOne(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h"}))

	matched, err := users.UpdateOne(ctx, "email", "a@x.com", map[string]any{"first_name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	got, err := users.FindOne(ctx, "email", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", models.Deref(got.FirstName))

	matched, err = users.UpdateOne(ctx, "email", "nobody@x.com", map[string]any{"first_name": "Bob"})
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestCollectionUpdateRejectsUnknownField(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	_, err := users.UpdateOne(ctx, "email", "a@x.com", map[string]any{"is_admin": true})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = users.FindOne(ctx, "1=1 OR email", "x")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = users.UpdateOne(ctx, "email", "a@x.com", map[string]any{})
	assert.Error(t, err)
}

func TestCollectionUpdateDuplicatePseudonym(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	alice := "alice"
	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h", Pseudonym: &alice}))
	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "b@x.com", Password: "h"}))

	_, err := users.UpdateOne(ctx, "email", "b@x.com", map[string]any{"pseudonym": "alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCollectionDeleteOne(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, users.InsertOne(ctx, &models.User{Email: "a@x.com", Password: "h"}))

	n, err := users.DeleteOne(ctx, "email", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = users.FindOne(ctx, "email", "a@x.com")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestCollectionQueryFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	users := NewCollection[models.User](db, "users", "email")

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "email" = \$1`).
		WithArgs("a@x.com", 1).
		WillReturnError(errors.New("connection reset"))

	_, err := users.FindOne(context.Background(), "email", "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDocument)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionUpdateFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	users := NewCollection[models.User](db, "users", "email", "first_name")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := users.UpdateOne(context.Background(), "email", "a@x.com", map[string]any{"first_name": "Ada"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionPing(t *testing.T) {
	db, mock := setupMockDB(t)
	users := NewCollection[models.User](db, "users")

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, users.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
