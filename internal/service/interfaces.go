package service

import (
	"context"

	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/types"
	"github.com/seeek/portfolio/backend/internal/upload"
)

// IUserService defines the interface for account and profile operations
type IUserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	RegisterProfile(ctx context.Context, req *types.RegisterProfileRequest, picture, file *upload.File) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, fields *types.ProfileFields, picture, file *upload.File) (*models.User, error)
	UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	UploadPicture(ctx context.Context, id string, file *upload.File) (string, error)
	UploadFiles(ctx context.Context, id string, file *upload.File) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ProfileStatus(ctx context.Context, email string) (*types.ProfileStatus, error)
	Ping(ctx context.Context) error
}

// IPortfolioService defines the interface for portfolio field operations
type IPortfolioService interface {
	GetField(ctx context.Context, email string, field models.Field) ([]any, error)
	ReplaceField(ctx context.Context, email string, field models.Field, seq []any) error
	ClearField(ctx context.Context, email string, field models.Field) error
	AddLink(ctx context.Context, email, name, link string) error
	RemoveLink(ctx context.Context, email, name string) error
	RemoveValue(ctx context.Context, email string, field models.Field, value any) (bool, error)
	ReplaceValue(ctx context.Context, email string, field models.Field, old, replacement any) (bool, error)
}

// IProfilePageService defines the interface for the public profile view
type IProfilePageService interface {
	Render(ctx context.Context, pseudonym string) (*ProfileView, error)
}

// ISessionService defines the interface for login sessions
type ISessionService interface {
	Create(ctx context.Context, email string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}
