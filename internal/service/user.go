package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/store"
	"github.com/seeek/portfolio/backend/internal/types"
	"github.com/seeek/portfolio/backend/internal/upload"
	"gorm.io/gorm"
)

// UserService handles accounts, profile fields and their uploads
type UserService struct {
	users      *store.Collection[models.User]
	portfolios *store.Collection[models.Portfolio]
	uploads    *upload.Handler
	logger     *slog.Logger
}

var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, uploads *upload.Handler, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:      store.Users(db),
		portfolios: store.Portfolios(db),
		uploads:    uploads,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// Ping checks the document store
func (s *UserService) Ping(ctx context.Context) error {
	return s.users.Ping(ctx)
}

// GetByEmail looks a user up by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(ctx, "email", normalizeEmail(email))
}

// GetByID looks a user up by id; a malformed id is a bad request
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.BadRequest("Invalid user id")
	}
	return s.find(ctx, "id", id)
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.Find(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *UserService) find(ctx context.Context, field, value string) (*models.User, error) {
	user, err := s.users.FindOne(ctx, field, value)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// UpdateProfile writes the supplied profile fields and uploads for an existing user
func (s *UserService) UpdateProfile(ctx context.Context, email string, fields *types.ProfileFields, picture, file *upload.File) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.BadRequest("Email is required")
	}
	if fields == nil {
		fields = &types.ProfileFields{}
	}

	user, err := s.find(ctx, "email", email)
	if err != nil {
		return nil, err
	}

	set := fields.Columns()
	if err := s.claimPseudonym(ctx, user, set, "Pseudonym is already taken"); err != nil {
		return nil, err
	}
	if err := s.checkUploads(picture, file); err != nil {
		return nil, err
	}

	first, last := models.Deref(user.FirstName), models.Deref(user.LastName)
	if fields.FirstName != nil {
		first = *fields.FirstName
	}
	if fields.LastName != nil {
		last = *fields.LastName
	}

	var superseded []slot
	if picture != nil {
		name, err := s.uploads.StoreUnique(ctx, picture, first, last, upload.Pictures)
		if err != nil {
			return nil, uploadError(err)
		}
		set["picture"] = name
		superseded = append(superseded, slot{upload.Pictures, models.Deref(user.Picture), name})
	}
	if file != nil {
		name, err := s.uploads.StoreUnique(ctx, file, first, last, upload.Files)
		if err != nil {
			return nil, uploadError(err)
		}
		set["files"] = name
		superseded = append(superseded, slot{upload.Files, models.Deref(user.Files), name})
	}

	if len(set) == 0 {
		return user, nil
	}
	if err := s.update(ctx, "email", email, set); err != nil {
		return nil, err
	}
	s.removeSuperseded(ctx, superseded)

	return s.find(ctx, "email", email)
}

// UpdateByID applies a JSON partial update. Only profile columns with string
// values may be written; null values are skipped.
func (s *UserService) UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.BadRequest("Invalid user id")
	}
	if len(fields) == 0 {
		return nil, apperr.BadRequest("No data provided for update")
	}

	set := make(map[string]any, len(fields))
	for key, value := range fields {
		if !isProfileColumn(key) {
			return nil, apperr.BadRequest(fmt.Sprintf("Field %q cannot be updated", key))
		}
		if value == nil {
			continue
		}
		str, ok := value.(string)
		if !ok {
			return nil, apperr.BadRequest(fmt.Sprintf("Field %q must be a string", key))
		}
		set[key] = str
	}

	user, err := s.find(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	if err := s.claimPseudonym(ctx, user, set, "Pseudonym is already taken"); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, apperr.BadRequest("No data provided for update")
	}

	if err := s.update(ctx, "id", id, set); err != nil {
		return nil, err
	}
	return s.find(ctx, "id", id)
}

// UploadPicture stores a new profile picture and returns its filename
func (s *UserService) UploadPicture(ctx context.Context, id string, file *upload.File) (string, error) {
	return s.uploadSlot(ctx, id, file, upload.Pictures, "Invalid file format")
}

// UploadFiles stores a new attachment and returns its filename
func (s *UserService) UploadFiles(ctx context.Context, id string, file *upload.File) (string, error) {
	return s.uploadSlot(ctx, id, file, upload.Files, "File type not allowed")
}

func (s *UserService) uploadSlot(ctx context.Context, id string, file *upload.File, subdir, invalid string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.BadRequest("Invalid user id")
	}
	if file == nil || file.Filename == "" {
		return "", apperr.BadRequest("No selected file")
	}
	if !s.uploads.Allowed(file.Filename) {
		return "", apperr.BadRequest(invalid)
	}

	user, err := s.find(ctx, "id", id)
	if err != nil {
		return "", err
	}

	name, err := s.uploads.StoreUnique(ctx, file, models.Deref(user.FirstName), models.Deref(user.LastName), subdir)
	if err != nil {
		return "", uploadError(err)
	}

	column, previous := "picture", models.Deref(user.Picture)
	if subdir == upload.Files {
		column, previous = "files", models.Deref(user.Files)
	}
	if err := s.update(ctx, "id", id, map[string]any{column: name}); err != nil {
		return "", err
	}
	s.removeSuperseded(ctx, []slot{{subdir, previous, name}})

	return name, nil
}

// ProfileStatus lists what a user still has to fill in, in display order
func (s *UserService) ProfileStatus(ctx context.Context, email string) (*types.ProfileStatus, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.BadRequest("Email parameter is missing")
	}

	user, err := s.find(ctx, "email", email)
	if err != nil {
		return nil, err
	}

	missing := []string{}
	if models.Deref(user.FirstName) == "" {
		missing = append(missing, "First name is missing.")
	}
	if models.Deref(user.LastName) == "" {
		missing = append(missing, "Last name is missing.")
	}
	if models.Deref(user.Picture) == "" {
		missing = append(missing, "Profile picture is missing.")
	}

	portfolio, err := s.portfolios.FindOne(ctx, "email", email)
	switch {
	case errors.Is(err, store.ErrNoDocument):
		missing = append(missing, "Portfolio data is missing.")
	case err != nil:
		return nil, apperr.Internal(err)
	default:
		checks := []struct {
			field   models.Field
			message string
		}{
			{models.FieldSkills, "Skills are missing."},
			{models.FieldLinks, "Links are missing."},
			{models.FieldEducation, "Education details are missing."},
			{models.FieldWorkExperience, "Work experience details are missing."},
		}
		for _, c := range checks {
			if sequenceLen(portfolio.Get(c.field)) == 0 {
				missing = append(missing, c.message)
			}
		}
	}

	return &types.ProfileStatus{ProfileComplete: len(missing) == 0, MissingData: missing}, nil
}

// claimPseudonym drops an empty pseudonym from set and rejects one owned by another user
func (s *UserService) claimPseudonym(ctx context.Context, user *models.User, set map[string]any, conflict string) error {
	value, ok := set["pseudonym"]
	if !ok {
		return nil
	}
	pseudonym, _ := value.(string)
	if pseudonym == "" {
		delete(set, "pseudonym")
		return nil
	}

	owner, err := s.users.FindOne(ctx, "pseudonym", pseudonym)
	if errors.Is(err, store.ErrNoDocument) {
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if owner.ID != user.ID {
		return apperr.Conflict(conflict)
	}
	return nil
}

func (s *UserService) update(ctx context.Context, field, value string, set map[string]any) error {
	matched, err := s.users.UpdateOne(ctx, field, value, set)
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Conflict("Pseudonym is already taken")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if matched == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func (s *UserService) checkUploads(files ...*upload.File) error {
	for _, f := range files {
		if f != nil && !s.uploads.Allowed(f.Filename) {
			return apperr.BadRequest("Invalid file format")
		}
	}
	return nil
}

// slot is an upload position whose previous file is deleted once the record points elsewhere
type slot struct {
	subdir   string
	previous string
	current  string
}

func (s *UserService) removeSuperseded(ctx context.Context, slots []slot) {
	for _, sl := range slots {
		if sl.previous == "" || sl.previous == sl.current {
			continue
		}
		if err := s.uploads.Remove(ctx, sl.subdir, sl.previous); err != nil {
			s.logger.Warn("failed to remove superseded upload",
				slog.String("subdir", sl.subdir),
				slog.String("name", sl.previous),
				slog.Any("error", err),
			)
		}
	}
}

func uploadError(err error) error {
	if errors.Is(err, upload.ErrInvalidFile) {
		return apperr.BadRequest("Invalid file format")
	}
	return apperr.Internal(err)
}

func isProfileColumn(name string) bool {
	for _, c := range models.ProfileColumns {
		if c == name {
			return true
		}
	}
	return false
}
