package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/store"
	"github.com/seeek/portfolio/backend/internal/types"
	"github.com/seeek/portfolio/backend/internal/upload"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an account with only email and password set, plus its empty portfolio
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Email and password are required")
	}

	exists, err := s.users.Exists(ctx, "email", email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: hash}
	if err := s.insertUser(ctx, user, "User with this email already exists"); err != nil {
		return nil, err
	}
	if err := s.createPortfolio(ctx, email); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// RegisterProfile creates a fully populated account from the multipart form
func (s *UserService) RegisterProfile(ctx context.Context, req *types.RegisterProfileRequest, picture, file *upload.File) (*models.User, error) {
	if req == nil {
		return nil, apperr.BadRequest("Missing required fields")
	}
	form := *req
	form.Email = normalizeEmail(form.Email)
	req = &form
	if req.Missing() {
		return nil, apperr.BadRequest("Missing required fields")
	}
	if err := s.checkUploads(picture, file); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, "email", req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Conflict("Email already exists")
	}
	taken, err := s.users.Exists(ctx, "pseudonym", req.Pseudonym)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Pseudonym already exists")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:       req.Email,
		Password:    hash,
		FirstName:   &req.FirstName,
		LastName:    &req.LastName,
		JobTitle:    &req.JobTitle,
		PhoneNumber: &req.PhoneNumber,
		Age:         &req.Age,
		Address:     &req.Address,
		Description: &req.Description,
		Pseudonym:   &req.Pseudonym,
		Links:       &req.Links,
	}

	if picture != nil {
		name, err := s.uploads.StoreUnique(ctx, picture, req.FirstName, req.LastName, upload.Pictures)
		if err != nil {
			return nil, uploadError(err)
		}
		user.Picture = &name
	}
	if file != nil {
		name, err := s.uploads.StoreUnique(ctx, file, req.FirstName, req.LastName, upload.Files)
		if err != nil {
			return nil, uploadError(err)
		}
		user.Files = &name
	}

	if err := s.insertUser(ctx, user, "Email or pseudonym already exists"); err != nil {
		return nil, err
	}
	if err := s.createPortfolio(ctx, user.Email); err != nil {
		return nil, err
	}

	s.logger.Info("user registered with profile", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies the password of an existing account
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Missing required fields")
	}

	user, err := s.users.FindOne(ctx, "email", email)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	return user, nil
}

// normalizeEmail is applied to every email entering the service layer so
// stored and looked-up addresses agree
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (s *UserService) insertUser(ctx context.Context, user *models.User, conflict string) error {
	if err := s.users.InsertOne(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict(conflict)
		}
		return apperr.Internal(err)
	}
	return nil
}

// createPortfolio runs after the user insert; a failure here leaves the user without a portfolio
func (s *UserService) createPortfolio(ctx context.Context, email string) error {
	if err := s.portfolios.InsertOne(ctx, models.NewPortfolio(email)); err != nil {
		s.logger.Error("failed to create portfolio", slog.String("email", email), slog.Any("error", err))
		return apperr.Internal(fmt.Errorf("create portfolio: %w", err))
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.BadRequest("Password is too long")
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hash password: %w", err))
	}
	return string(hash), nil
}
