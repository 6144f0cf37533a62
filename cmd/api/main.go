package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"royal-seed/internal/config"
	"royal-seed/internal/database"
	"royal-seed/internal/logger"
	"royal-seed/internal/server"
	"royal-seed/internal/service"

	"go.uber.org/zap"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

// gracefulShutdown waits for SIGINT/SIGTERM, drains in-flight requests and
// releases the store and Redis connections.
func gracefulShutdown(apiServer *server.Server, log *zap.Logger, done chan<- struct{}) {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	// A second signal kills the process
	stop()

	log.Info("Shutting down, waiting for in-flight seed requests", zap.Duration("timeout", shutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := apiServer.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}

	close(done)
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting seed API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("auth", cfg.JWT.Secret != ""),
		zap.Bool("rate_limit", cfg.Redis.Enabled()),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbService, err := database.New(startupCtx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", dbService.Health(startupCtx)))

	if cfg.Seed.Migrate {
		if err := database.RunMigrations(startupCtx, dbService.DB(), dbService.Dialect(), log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	seedService, err := service.NewSeedServiceFromConfig(cfg.Seed, dbService, nil, log)
	if err != nil {
		log.Fatal("Failed to build seed service", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, dbService, seedService)

	done := make(chan struct{})
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
