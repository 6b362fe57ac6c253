package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/seeek/portfolio/backend/config"
	"github.com/seeek/portfolio/backend/internal/database"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/seed"
	"github.com/seeek/portfolio/backend/internal/server"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/upload"
)

func main() {
	count := flag.Int("count", 10, "number of users to create")
	password := flag.String("password", "testpassword123", "password for every seeded user")
	seedValue := flag.Int64("seed", 0, "random seed, 0 for a random run")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		slog.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	files, err := server.NewFileStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize upload storage", slog.Any("error", err))
		os.Exit(1)
	}
	uploads := upload.NewHandler(files, upload.NewExtensionSet(cfg.AllowedExtensions...), nil)

	factory := seed.NewFactory(
		service.NewUserService(db.DB, uploads, nil),
		service.NewPortfolioService(db.DB, nil),
		seed.Options{Count: *count, Password: *password, Seed: *seedValue},
		nil,
	)
	users, err := factory.Run(ctx)
	if err != nil {
		slog.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	for _, u := range users {
		slog.Info("created user", slog.String("email", u.Email), slog.String("pseudonym", models.Deref(u.Pseudonym)))
	}
}
