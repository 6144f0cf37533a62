//go:build integration

package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"royal-seed/internal/database"
	"royal-seed/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(context.Background(), testDB, database.Postgres, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func TestPostgres_UserCreateIsInsertIfAbsent(t *testing.T) {
	repo := NewUserRepository(testDB, database.Postgres)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("second create with the same email is skipped", prop.ForAll(
		func(email string, username string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			now := time.Now().UTC()
			first := &domain.User{Email: email, Username: username, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
			if err := repo.Create(ctx, first); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}

			second := &domain.User{Email: email, Username: "other", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
			if err := repo.Create(ctx, second); err != ErrUserAlreadyExists {
				t.Logf("Expected ErrUserAlreadyExists, got %v", err)
				return false
			}

			stored, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			return stored.ID == first.ID && stored.Username == username
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPostgres_ProductSellerForeignKey(t *testing.T) {
	userRepo := NewUserRepository(testDB, database.Postgres)
	productRepo := NewProductRepository(testDB, database.Postgres)
	ctx := context.Background()
	now := time.Now().UTC()

	seller := &domain.User{Email: "fk-seller@example.com", Username: "seller", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	if err := userRepo.Create(ctx, seller); err != nil {
		t.Fatalf("create seller: %v", err)
	}
	defer testDB.Exec("DELETE FROM users WHERE id = $1", seller.ID)

	product := &domain.Product{
		SellerID:    seller.ID,
		Title:       "Test Product",
		PriceOrigin: 1000,
		PriceSell:   1000,
		ProductID:   "prod_fk",
		PriceID:     "price_fk",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	orphan := *product
	orphan.SellerID = seller.ID + 1_000_000
	orphan.ProductID = "prod_orphan"
	if err := productRepo.Create(ctx, &orphan); err == nil {
		t.Fatal("expected foreign key violation")
	}
}
