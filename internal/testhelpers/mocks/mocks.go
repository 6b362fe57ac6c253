// Package mocks provides testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/types"
	"github.com/seeek/portfolio/backend/internal/upload"
	"github.com/stretchr/testify/mock"
)

var (
	_ service.IUserService        = (*MockUserService)(nil)
	_ service.IPortfolioService   = (*MockPortfolioService)(nil)
	_ service.IProfilePageService = (*MockProfilePageService)(nil)
	_ service.ISessionService     = (*MockSessionService)(nil)
)

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return m.user(m.Called(ctx, email, password))
}

func (m *MockUserService) RegisterProfile(ctx context.Context, req *types.RegisterProfileRequest, picture, file *upload.File) (*models.User, error) {
	return m.user(m.Called(ctx, req, picture, file))
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	return m.user(m.Called(ctx, email, password))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, email string, fields *types.ProfileFields, picture, file *upload.File) (*models.User, error) {
	return m.user(m.Called(ctx, email, fields, picture, file))
}

func (m *MockUserService) UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	return m.user(m.Called(ctx, id, fields))
}

func (m *MockUserService) UploadPicture(ctx context.Context, id string, file *upload.File) (string, error) {
	args := m.Called(ctx, id, file)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) UploadFiles(ctx context.Context, id string, file *upload.File) (string, error) {
	args := m.Called(ctx, id, file)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) ProfileStatus(ctx context.Context, email string) (*types.ProfileStatus, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProfileStatus), args.Error(1)
}

func (m *MockUserService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPortfolioService is a mock implementation of service.IPortfolioService
type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) GetField(ctx context.Context, email string, field models.Field) ([]any, error) {
	args := m.Called(ctx, email, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockPortfolioService) ReplaceField(ctx context.Context, email string, field models.Field, seq []any) error {
	return m.Called(ctx, email, field, seq).Error(0)
}

func (m *MockPortfolioService) ClearField(ctx context.Context, email string, field models.Field) error {
	return m.Called(ctx, email, field).Error(0)
}

func (m *MockPortfolioService) AddLink(ctx context.Context, email, name, link string) error {
	return m.Called(ctx, email, name, link).Error(0)
}

func (m *MockPortfolioService) RemoveLink(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *MockPortfolioService) RemoveValue(ctx context.Context, email string, field models.Field, value any) (bool, error) {
	args := m.Called(ctx, email, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockPortfolioService) ReplaceValue(ctx context.Context, email string, field models.Field, old, replacement any) (bool, error) {
	args := m.Called(ctx, email, field, old, replacement)
	return args.Bool(0), args.Error(1)
}

// MockProfilePageService is a mock implementation of service.IProfilePageService
type MockProfilePageService struct {
	mock.Mock
}

func (m *MockProfilePageService) Render(ctx context.Context, pseudonym string) (*service.ProfileView, error) {
	args := m.Called(ctx, pseudonym)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileView), args.Error(1)
}

// MockSessionService is a mock implementation of service.ISessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Destroy(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
