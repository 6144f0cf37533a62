package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var dialectDirs = []string{"postgres", "sqlite"}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_products_table.sql",
	}

	for _, dir := range dialectDirs {
		migrationsDir := filepath.Join("../../migrations", dir)
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			t.Fatalf("Migrations directory %s does not exist", migrationsDir)
		}

		for _, migration := range expectedMigrations {
			path := filepath.Join(migrationsDir, migration)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Errorf("Migration file %s does not exist", path)
			}
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	for _, dir := range dialectDirs {
		migrationsDir := filepath.Join("../../migrations", dir)
		files, err := os.ReadDir(migrationsDir)
		if err != nil {
			t.Fatalf("Failed to read migrations directory: %v", err)
		}

		sqlFileCount := 0
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
				continue
			}

			sqlFileCount++
			content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
			if err != nil {
				t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
				continue
			}

			for _, directive := range []string{
				"-- +goose Up",
				"-- +goose Down",
				"-- +goose StatementBegin",
				"-- +goose StatementEnd",
			} {
				if !strings.Contains(string(content), directive) {
					t.Errorf("Migration file %s/%s missing '%s' directive", dir, file.Name(), directive)
				}
			}
		}

		if sqlFileCount == 0 {
			t.Errorf("No SQL migration files found in %s", dir)
		}
	}
}

func TestProductsTableReferencesSeller(t *testing.T) {
	for _, dir := range dialectDirs {
		path := filepath.Join("../../migrations", dir, "00002_create_products_table.sql")
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read products migration: %v", err)
		}

		contentStr := string(content)
		for _, column := range []string{
			"seller_id",
			"title VARCHAR",
			"description TEXT",
			"price_origin",
			"price_sell",
			"product_id VARCHAR(255) UNIQUE",
			"price_id VARCHAR",
		} {
			if !strings.Contains(contentStr, column) {
				t.Errorf("%s products table missing column definition: %s", dir, column)
			}
		}

		if !strings.Contains(contentStr, "FOREIGN KEY (seller_id) REFERENCES users(id)") {
			t.Errorf("%s products table missing foreign key to users", dir)
		}
	}
}

func TestUsersTableHasUniqueEmail(t *testing.T) {
	for _, dir := range dialectDirs {
		path := filepath.Join("../../migrations", dir, "00001_create_users_table.sql")
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read users migration: %v", err)
		}

		if !strings.Contains(string(content), "email VARCHAR(255) UNIQUE NOT NULL") {
			t.Errorf("%s users table missing unique email", dir)
		}
	}
}
