package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/seeek/portfolio/backend/config"
	"github.com/seeek/portfolio/backend/internal/api"
	"github.com/seeek/portfolio/backend/internal/middleware"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/upload"
	"github.com/seeek/portfolio/backend/internal/web"
)

// UploadsPath is where the local storage backend is served
const UploadsPath = "/static/uploads"

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// NewFileStore builds the upload backend selected by cfg.StorageBackend
func NewFileStore(ctx context.Context, cfg *config.Config) (upload.FileStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return upload.NewS3StoreFromConfig(s3cfg), nil
	case "", "local":
		return upload.NewLocalStore(cfg.UploadRoot, UploadsPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// New wires services and routes. rdb may be nil, in which case sessions and
// login rate limiting are disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, files upload.FileStore, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	uploads := upload.NewHandler(files, upload.NewExtensionSet(cfg.AllowedExtensions...), logger)
	deps := api.Deps{
		Users:        service.NewUserService(db, uploads, logger),
		Portfolios:   service.NewPortfolioService(db, logger),
		Pages:        service.NewProfilePageService(db, uploads, logger),
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: config.GetEnvironment() == config.Production,
	}
	if rdb != nil {
		deps.Sessions = service.NewSessionService(rdb, cfg.SessionSecret, cfg.SessionTTL)
		deps.LoginLimiter = middleware.NewLoginRateLimiter(rdb, cfg.LoginRateLimit)
	} else {
		logger.Warn("redis unavailable, sessions and login rate limiting disabled")
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Metrics(), middleware.ErrorHandler(), middleware.CORS(cfg.AllowedOrigins))
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = 16 << 20

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if _, ok := files.(*upload.LocalStore); ok {
		router.Static(UploadsPath, cfg.UploadRoot)
	}
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Router exposes the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
