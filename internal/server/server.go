package server

import (
	"fmt"
	"net/http"
	"time"

	"royal-seed/internal/config"
	"royal-seed/internal/database"
	custommiddleware "royal-seed/internal/middleware"
	"royal-seed/internal/service"
	"royal-seed/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeedRoles are the token roles allowed to call POST /seed
var SeedRoles = []string{"seeder", "admin"}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, seedService service.SeedService) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	var seedMiddleware []func(http.Handler) http.Handler

	if cfg.JWT.Secret != "" {
		seedMiddleware = append(seedMiddleware,
			custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger),
			custommiddleware.RequireRole(SeedRoles, logger),
		)
	} else {
		logger.Warn("JWT_SECRET not set, /seed is unauthenticated")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		seedMiddleware = append(seedMiddleware, custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "seed_rate_limit",
		}, logger))
	}

	seedHandler := transport.NewSeedHandler(seedService, db, logger)
	seedHandler.RegisterRoutes(router, seedMiddleware...)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
