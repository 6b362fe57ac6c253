package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/seeek/portfolio/backend/config"
	"github.com/seeek/portfolio/backend/internal/database"
	"github.com/seeek/portfolio/backend/internal/server"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := database.New(cfg)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB); err != nil {
		fatal("failed to run migrations", err)
	}

	// The API still serves without Redis; only sessions and rate limiting need it
	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("failed to connect to redis", slog.Any("error", err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	files, err := server.NewFileStore(context.Background(), cfg)
	if err != nil {
		fatal("failed to initialize upload storage", err)
	}

	srv, err := server.New(cfg, db.DB, rdb, files, logger)
	if err != nil {
		fatal("failed to build server", err)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			fatal("server error", err)
		}
	case sig := <-quit:
		logger.Info("received signal", slog.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		fatal("server shutdown error", err)
	}
	logger.Info("server stopped")
}
