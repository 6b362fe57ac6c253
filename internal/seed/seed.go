// Package seed creates demo accounts with filled-in profiles and portfolios.
// It is intended for development only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/types"
)

// Options controls a seeding run
type Options struct {
	Count    int
	Password string
	// Seed makes the generated data reproducible; 0 picks a random seed
	Seed int64
}

// Factory builds demo users through the regular services
type Factory struct {
	users      service.IUserService
	portfolios service.IPortfolioService
	faker      *gofakeit.Faker
	opts       Options
	logger     *slog.Logger
}

// NewFactory creates a Factory. A zero Count seeds ten users.
func NewFactory(users service.IUserService, portfolios service.IPortfolioService, opts Options, logger *slog.Logger) *Factory {
	if opts.Count <= 0 {
		opts.Count = 10
	}
	if opts.Password == "" {
		opts.Password = "testpassword123"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		users:      users,
		portfolios: portfolios,
		faker:      gofakeit.New(opts.Seed),
		opts:       opts,
		logger:     logger.With(slog.String("component", "seed")),
	}
}

// BuildRegistration returns a complete registration form for the i-th user
func (f *Factory) BuildRegistration(i int) *types.RegisterProfileRequest {
	first, last := f.faker.FirstName(), f.faker.LastName()
	handle := strings.ToLower(fmt.Sprintf("%s.%s.%d", first, last, i))
	return &types.RegisterProfileRequest{
		Email:       handle + "@example.com",
		Password:    f.opts.Password,
		FirstName:   first,
		LastName:    last,
		JobTitle:    f.faker.JobTitle(),
		PhoneNumber: f.faker.Phone(),
		Age:         strconv.Itoa(f.faker.Number(21, 65)),
		Address:     f.faker.City(),
		Description: f.faker.Paragraph(1, 3, 12, "\n\n"),
		Links:       f.faker.URL(),
		Pseudonym:   strings.ReplaceAll(handle, ".", "-"),
	}
}

func (f *Factory) period() map[string]any {
	start := f.faker.DateRange(time.Now().AddDate(-15, 0, 0), time.Now().AddDate(-1, 0, 0)).UTC()
	end := start.AddDate(f.faker.Number(1, 4), f.faker.Number(0, 11), 0)
	return map[string]any{
		"start_date": start.Format(service.DateLayout),
		"end_date":   end.Format(service.DateLayout),
	}
}

// BuildPortfolio returns skills, work experience and education sequences
func (f *Factory) BuildPortfolio() map[models.Field][]any {
	skills := make([]any, 0, 4)
	for i := 0; i < 4; i++ {
		skills = append(skills, f.faker.ProgrammingLanguage())
	}

	work := []any{}
	for i := 0; i < f.faker.Number(1, 3); i++ {
		entry := f.period()
		entry["company"] = f.faker.Company()
		entry["position"] = f.faker.JobTitle()
		work = append(work, entry)
	}

	edu := f.period()
	edu["school"] = f.faker.Company() + " University"
	edu["degree"] = f.faker.JobDescriptor() + " Studies"

	return map[models.Field][]any{
		models.FieldSkills:         skills,
		models.FieldWorkExperience: work,
		models.FieldEducation:      {edu},
	}
}

// Run registers Count users and fills their portfolios. Users whose email or
// pseudonym already exist are skipped.
func (f *Factory) Run(ctx context.Context) ([]*models.User, error) {
	created := make([]*models.User, 0, f.opts.Count)
	for i := 0; i < f.opts.Count; i++ {
		req := f.BuildRegistration(i)
		user, err := f.users.RegisterProfile(ctx, req, nil, nil)
		if apperr.Is(err, apperr.CodeConflict) {
			f.logger.Info("skipping existing user", slog.String("email", req.Email))
			continue
		}
		if err != nil {
			return created, fmt.Errorf("register %s: %w", req.Email, err)
		}

		for field, seq := range f.BuildPortfolio() {
			if err := f.portfolios.ReplaceField(ctx, user.Email, field, seq); err != nil {
				return created, fmt.Errorf("fill %s for %s: %w", field, user.Email, err)
			}
		}
		if err := f.portfolios.AddLink(ctx, user.Email, "website", f.faker.URL()); err != nil {
			return created, fmt.Errorf("add link for %s: %w", user.Email, err)
		}

		created = append(created, user)
	}

	f.logger.Info("seeded users", slog.Int("count", len(created)))
	return created, nil
}
