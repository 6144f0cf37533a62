package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"royal-seed/internal/config"
	"royal-seed/internal/database"
	"royal-seed/internal/logger"
	"royal-seed/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdout, log)
	stop()

	log.Sync()
	os.Exit(code)
}

// run seeds the configured store and reports to stdout. It returns the process exit code.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer, log *zap.Logger) int {
	result, err := seed(ctx, cfg, stdout, log)
	if err != nil {
		log.Error("Seeding failed", zap.Error(err))
	}

	if werr := service.Report(stdout, result, err); werr != nil {
		log.Error("Failed to write report", zap.Error(werr))
		return 1
	}
	if err != nil {
		return 1
	}
	return 0
}

func seed(ctx context.Context, cfg *config.Config, progress io.Writer, log *zap.Logger) (*service.SeedResult, error) {
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	log.Debug("Database opened", zap.Any("health", db.Health(ctx)))

	if cfg.Seed.Migrate {
		if err := database.RunMigrations(ctx, db.DB(), db.Dialect(), log); err != nil {
			return nil, err
		}
	}

	seedService, err := service.NewSeedServiceFromConfig(cfg.Seed, db, progress, log)
	if err != nil {
		return nil, err
	}

	return seedService.EnsureTestData(ctx)
}
