package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/store"
	"github.com/seeek/portfolio/backend/internal/upload"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"
)

// DateLayout is the stored form of portfolio start/end dates. Fractional
// seconds after it are accepted when parsing.
const DateLayout = "2006-01-02T15:04:05"

// ProfileView is everything the public profile page displays
type ProfileView struct {
	User        *models.User
	Portfolio   PortfolioView
	Links       []models.Link
	Description template.HTML
	PictureURL  string
	FilesURL    string
}

// PortfolioView holds decoded portfolio sequences
type PortfolioView struct {
	Skills         []any
	WorkExperience []any
	Education      []any
	Links          []any
}

// ProfilePageService joins a user found by pseudonym with their portfolio
type ProfilePageService struct {
	users      *store.Collection[models.User]
	portfolios *store.Collection[models.Portfolio]
	uploads    *upload.Handler
	markdown   goldmark.Markdown
	logger     *slog.Logger
}

var _ IProfilePageService = (*ProfilePageService)(nil)

// NewProfilePageService creates a new ProfilePageService instance
func NewProfilePageService(db *gorm.DB, uploads *upload.Handler, logger *slog.Logger) *ProfilePageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfilePageService{
		users:      store.Users(db),
		portfolios: store.Portfolios(db),
		uploads:    uploads,
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:     logger.With(slog.String("component", "profile_page")),
	}
}

// Render builds the view for pseudonym
func (s *ProfilePageService) Render(ctx context.Context, pseudonym string) (*ProfileView, error) {
	if pseudonym == "" {
		return nil, apperr.NotFound("User profile not found")
	}

	user, err := s.users.FindOne(ctx, "pseudonym", pseudonym)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, apperr.NotFound("User profile not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	email := strings.TrimSpace(user.Email)
	if email == "" {
		return nil, apperr.NotFound("User email not found")
	}

	portfolio, err := s.portfolios.FindOne(ctx, "email", email)
	if errors.Is(err, store.ErrNoDocument) {
		s.logger.Debug("no portfolio for profile", slog.String("pseudonym", pseudonym))
		portfolio = models.NewPortfolio(email)
	} else if err != nil {
		return nil, apperr.Internal(err)
	}

	view := &ProfileView{
		User: user,
		Portfolio: PortfolioView{
			Skills:         s.sequence(portfolio, models.FieldSkills),
			WorkExperience: s.withDates(s.sequence(portfolio, models.FieldWorkExperience)),
			Education:      s.withDates(s.sequence(portfolio, models.FieldEducation)),
			Links:          s.sequence(portfolio, models.FieldLinks),
		},
		Links: s.links(portfolio),
	}

	if desc := models.Deref(user.Description); desc != "" {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(desc), &buf); err != nil {
			s.logger.Warn("failed to render description", slog.Any("error", err))
			view.Description = template.HTML(template.HTMLEscapeString(desc))
		} else {
			view.Description = template.HTML(buf.String())
		}
	}
	if s.uploads != nil {
		view.PictureURL = s.uploads.URL(upload.Pictures, models.Deref(user.Picture))
		view.FilesURL = s.uploads.URL(upload.Files, models.Deref(user.Files))
	}

	return view, nil
}

func (s *ProfilePageService) sequence(p *models.Portfolio, field models.Field) []any {
	seq, err := decodeSequence(p.Get(field))
	if err != nil {
		s.logger.Warn("undecodable portfolio field", slog.String("field", string(field)), slog.Any("error", err))
		return []any{}
	}
	return seq
}

func (s *ProfilePageService) links(p *models.Portfolio) []models.Link {
	links := []models.Link{}
	if err := json.Unmarshal(p.Get(models.FieldLinks), &links); err != nil {
		s.logger.Warn("undecodable links", slog.Any("error", err))
		return []models.Link{}
	}
	return links
}

// withDates converts string start_date/end_date values to time.Time in place
func (s *ProfilePageService) withDates(entries []any) []any {
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"start_date", "end_date"} {
			raw, ok := obj[key].(string)
			if !ok {
				continue
			}
			t, err := ParseDate(raw)
			if err != nil {
				s.logger.Warn("unparseable portfolio date", slog.String("key", key), slog.String("value", raw))
				continue
			}
			obj[key] = t
		}
	}
	return entries
}

// ParseDate parses a stored portfolio date
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
