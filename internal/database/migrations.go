package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"royal-seed/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// gooseLogger routes goose output through zap so stdout stays clean.
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }

func gooseDialect(d Dialect) string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

func prepareGoose(d Dialect, logger *zap.Logger) error {
	sub, err := fs.Sub(migrations.FS, string(d))
	if err != nil {
		return fmt.Errorf("failed to open %s migrations: %w", d, err)
	}
	goose.SetBaseFS(sub)
	goose.SetLogger(gooseLogger{sugar: logger.Sugar()})

	if err := goose.SetDialect(gooseDialect(d)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunMigrations executes all pending embedded migrations for the dialect
func RunMigrations(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger) error {
	if err := prepareGoose(d, logger); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dialect", string(d)))

	if err := goose.UpContext(ctx, db, "."); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// MigrationVersion returns the current schema version
func MigrationVersion(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger) (int64, error) {
	if err := prepareGoose(d, logger); err != nil {
		return 0, err
	}

	return goose.GetDBVersionContext(ctx, db)
}
