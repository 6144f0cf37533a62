package service

import (
	"io"

	"royal-seed/internal/config"
	"royal-seed/internal/database"
	"royal-seed/internal/repository"
	"royal-seed/internal/security"

	"go.uber.org/zap"
)

// DefaultsFromConfig maps SEED_* overrides onto SeedDefaults.
func DefaultsFromConfig(cfg config.SeedConfig) SeedDefaults {
	return SeedDefaults{
		Email:              cfg.UserEmail,
		Password:           cfg.UserPassword,
		Username:           cfg.UserUsername,
		ProductTitle:       cfg.ProductTitle,
		ProductDescription: cfg.ProductDescription,
		PriceOrigin:        cfg.PriceOrigin,
		PriceSell:          cfg.PriceSell,
		ProductID:          cfg.ProductID,
		PriceID:            cfg.PriceID,
	}.withFallbacks()
}

// NewSeedServiceFromConfig wires repositories and the configured password hasher
// over an open store.
func NewSeedServiceFromConfig(cfg config.SeedConfig, db *database.Service, progress io.Writer, logger *zap.Logger) (SeedService, error) {
	hasher, err := security.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}

	return NewSeedService(
		repository.NewUserRepository(db.DB(), db.Dialect()),
		repository.NewProductRepository(db.DB(), db.Dialect()),
		hasher,
		DefaultsFromConfig(cfg),
		progress,
		logger,
	), nil
}
