package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/store"
	"github.com/seeek/portfolio/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProfile(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	uploads, _ := testhelpers.NewUploadHandler(t)
	ctx := context.Background()

	testhelpers.CreateTestUser(t, db, "a@x.com", "pw", func(u *models.User) {
		u.Pseudonym = testhelpers.Ptr("alice")
		u.Description = testhelpers.Ptr("Hello **world**")
		u.Picture = testhelpers.Ptr("me.png")
	})

	portfolios := service.NewPortfolioService(db, nil)
	require.NoError(t, portfolios.ReplaceField(ctx, "a@x.com", models.FieldWorkExperience, []any{
		map[string]any{"company": "ACME", "start_date": "2020-01-02T03:04:05.123456", "end_date": "not a date"},
		map[string]any{"company": "Initech", "start_date": map[string]any{"year": json.Number("2019")}},
	}))
	require.NoError(t, portfolios.ReplaceField(ctx, "a@x.com", models.FieldEducation, []any{
		map[string]any{"school": "MIT", "end_date": "2018-06-01T00:00:00"},
	}))
	require.NoError(t, portfolios.AddLink(ctx, "a@x.com", "blog", "https://ada.dev"))

	svc := service.NewProfilePageService(db, uploads, nil)
	view, err := svc.Render(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", view.User.Email)
	assert.Equal(t, []models.Link{{Name: "blog", Link: "https://ada.dev"}}, view.Links)
	assert.Contains(t, string(view.Description), "<strong>world</strong>")
	assert.Equal(t, "/static/uploads/pictures/me.png", view.PictureURL)
	assert.Empty(t, view.FilesURL)

	work := view.Portfolio.WorkExperience
	require.Len(t, work, 2)
	first := work[0].(map[string]any)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 123456000, time.UTC), first["start_date"])
	assert.Equal(t, "not a date", first["end_date"], "unparseable dates are left as they are")
	second := work[1].(map[string]any)
	assert.Equal(t, map[string]any{"year": json.Number("2019")}, second["start_date"])

	edu := view.Portfolio.Education[0].(map[string]any)
	assert.Equal(t, time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC), edu["end_date"])
}

func TestRenderProfileDefaults(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, store.Users(db).InsertOne(ctx, &models.User{
		Email:     "solo@x.com",
		Password:  "h",
		Pseudonym: testhelpers.Ptr("solo"),
	}))

	svc := service.NewProfilePageService(db, nil, nil)
	view, err := svc.Render(ctx, "solo")
	require.NoError(t, err)
	assert.Empty(t, view.Portfolio.Skills)
	assert.NotNil(t, view.Portfolio.Skills)
	assert.Empty(t, view.Links)
	assert.Empty(t, view.Description)
}

func TestRenderProfileNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, store.Users(db).InsertOne(ctx, &models.User{
		Email:     "   ",
		Password:  "h",
		Pseudonym: testhelpers.Ptr("blank"),
	}))

	svc := service.NewProfilePageService(db, nil, nil)

	_, err := svc.Render(ctx, "nobody")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Render(ctx, "blank")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestParseDate(t *testing.T) {
	got, err := service.ParseDate("2021-11-30T08:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 11, 30, 8, 0, 0, 0, time.UTC), got)

	_, err = service.ParseDate("30/11/2021")
	assert.Error(t, err)
}
