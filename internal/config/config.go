package config

import (
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
	Path     string // sqlite file or DSN
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type JWTConfig struct {
	Secret string
}

// SeedConfig overrides the values written for freshly created test records.
// Empty fields fall back to the seeder defaults.
type SeedConfig struct {
	Migrate            bool
	PasswordHasher     string
	UserEmail          string
	UserPassword       string
	UserUsername       string
	ProductTitle       string
	ProductDescription string
	PriceOrigin        int64
	PriceSell          int64
	ProductID          string
	PriceID            string
}

func Load() *Config {
	return LoadFrom(".")
}

// LoadFrom reads .env from dir (if present) and the process environment.
func LoadFrom(dir string) *Config {
	// .env only fills variables the environment leaves unset; a missing file is fine
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "data/seed.db")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("SEED_MIGRATE", false)
	v.SetDefault("SEED_PASSWORD_HASHER", "bcrypt")

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Path:     v.GetString("DB_PATH"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Seed: SeedConfig{
			Migrate:            v.GetBool("SEED_MIGRATE"),
			PasswordHasher:     v.GetString("SEED_PASSWORD_HASHER"),
			UserEmail:          v.GetString("SEED_USER_EMAIL"),
			UserPassword:       v.GetString("SEED_USER_PASSWORD"),
			UserUsername:       v.GetString("SEED_USER_USERNAME"),
			ProductTitle:       v.GetString("SEED_PRODUCT_TITLE"),
			ProductDescription: v.GetString("SEED_PRODUCT_DESCRIPTION"),
			PriceOrigin:        v.GetInt64("SEED_PRICE_ORIGIN"),
			PriceSell:          v.GetInt64("SEED_PRICE_SELL"),
			ProductID:          v.GetString("SEED_PRODUCT_ID"),
			PriceID:            v.GetString("SEED_PRICE_ID"),
		},
	}
}
