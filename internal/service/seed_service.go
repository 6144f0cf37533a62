package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"royal-seed/internal/domain"
	"royal-seed/internal/repository"
	"royal-seed/internal/security"

	"go.uber.org/zap"
)

// SeedDefaults are the values written when a test record has to be created.
type SeedDefaults struct {
	Email              string
	Password           string
	Username           string
	ProductTitle       string
	ProductDescription string
	PriceOrigin        int64
	PriceSell          int64
	ProductID          string
	PriceID            string
}

// DefaultSeedValues returns the fixed test-record values CI scripts rely on.
func DefaultSeedValues() SeedDefaults {
	return SeedDefaults{
		Email:              "test@example.com",
		Password:           "password123",
		Username:           "TestUser",
		ProductTitle:       "Test Product",
		ProductDescription: "This is a test product",
		PriceOrigin:        1000,
		PriceSell:          1000,
		ProductID:          "prod_test123",
		PriceID:            "price_test123",
	}
}

// withFallbacks fills every empty field from DefaultSeedValues.
func (d SeedDefaults) withFallbacks() SeedDefaults {
	def := DefaultSeedValues()
	if d.Email == "" {
		d.Email = def.Email
	}
	if d.Password == "" {
		d.Password = def.Password
	}
	if d.Username == "" {
		d.Username = def.Username
	}
	if d.ProductTitle == "" {
		d.ProductTitle = def.ProductTitle
	}
	if d.ProductDescription == "" {
		d.ProductDescription = def.ProductDescription
	}
	if d.PriceOrigin == 0 {
		d.PriceOrigin = def.PriceOrigin
	}
	if d.PriceSell == 0 {
		d.PriceSell = def.PriceSell
	}
	if d.ProductID == "" {
		d.ProductID = def.ProductID
	}
	if d.PriceID == "" {
		d.PriceID = def.PriceID
	}
	return d
}

// SeedResult identifies the resolved test records.
type SeedResult struct {
	UserID         int64 `json:"user_id"`
	ProductID      int64 `json:"product_id"`
	UserCreated    bool  `json:"user_created"`
	ProductCreated bool  `json:"product_created"`
}

// SeedService guarantees a test user and a test product exist
type SeedService interface {
	EnsureTestData(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	hasher      security.PasswordHasher
	defaults    SeedDefaults
	progress    io.Writer
	logger      *zap.Logger
}

// NewSeedService creates a new instance of SeedService.
// progress receives the "Creating test ..." lines; a nil writer, typed or not, discards them.
func NewSeedService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	hasher security.PasswordHasher,
	defaults SeedDefaults,
	progress io.Writer,
	logger *zap.Logger,
) SeedService {
	if isNilWriter(progress) {
		progress = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &seedService{
		userRepo:    userRepo,
		productRepo: productRepo,
		hasher:      hasher,
		defaults:    defaults.withFallbacks(),
		progress:    progress,
		logger:      logger,
	}
}

// isNilWriter also catches typed nil pointers such as a nil *bytes.Buffer.
func isNilWriter(w io.Writer) bool {
	if w == nil {
		return true
	}
	v := reflect.ValueOf(w)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// EnsureTestData resolves the first user and product, creating each one only when
// the store has none. A second run performs no writes.
func (s *seedService) EnsureTestData(ctx context.Context) (*SeedResult, error) {
	user, userCreated, err := s.ensureUser(ctx)
	if err != nil {
		return nil, err
	}

	product, productCreated, err := s.ensureProduct(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Test data ready",
		zap.Int64("user_id", user.ID),
		zap.Int64("product_id", product.ID),
		zap.Bool("user_created", userCreated),
		zap.Bool("product_created", productCreated),
	)

	return &SeedResult{
		UserID:         user.ID,
		ProductID:      product.ID,
		UserCreated:    userCreated,
		ProductCreated: productCreated,
	}, nil
}

func (s *seedService) ensureUser(ctx context.Context) (*domain.User, bool, error) {
	user, err := s.userRepo.First(ctx)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	fmt.Fprintln(s.progress, "Creating test user...")

	hashedPassword, err := s.hasher.Hash(s.defaults.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user = &domain.User{
		Email:        s.defaults.Email,
		Username:     s.defaults.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrUserAlreadyExists) {
		// A concurrent run inserted it between our lookup and insert
		s.logger.Warn("Test user created concurrently, reusing it", zap.String("email", user.Email))
		existing, findErr := s.userRepo.FindByEmail(ctx, user.Email)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to load existing user: %w", findErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("Created test user", zap.Int64("user_id", user.ID))
	return user, true, nil
}

func (s *seedService) ensureProduct(ctx context.Context, seller *domain.User) (*domain.Product, bool, error) {
	product, err := s.productRepo.First(ctx)
	if err == nil {
		return product, false, nil
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return nil, false, fmt.Errorf("failed to look up product: %w", err)
	}

	fmt.Fprintln(s.progress, "Creating test product...")

	now := time.Now().UTC()
	product = &domain.Product{
		SellerID:    seller.ID,
		Title:       s.defaults.ProductTitle,
		Description: s.defaults.ProductDescription,
		PriceOrigin: s.defaults.PriceOrigin,
		PriceSell:   s.defaults.PriceSell,
		ProductID:   s.defaults.ProductID,
		PriceID:     s.defaults.PriceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.productRepo.Create(ctx, product)
	if errors.Is(err, repository.ErrProductAlreadyExists) {
		s.logger.Warn("Test product created concurrently, reusing it", zap.String("product_id", product.ProductID))
		existing, findErr := s.productRepo.FindByProductID(ctx, product.ProductID)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to load existing product: %w", findErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Debug("Created test product", zap.Int64("product_id", product.ID))
	return product, true, nil
}
