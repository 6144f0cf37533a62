package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"royal-seed/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL flavour of the configured store.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a DB_DRIVER value to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql", "pgx", "":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $N placeholders for dialects that only take "?".
// Callers must reference every argument once and in order.
func Rebind(d Dialect, query string) string {
	if d != SQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

// Service owns the store connection pool.
type Service struct {
	db      *sql.DB
	dialect Dialect
}

// New opens the configured store and verifies it is reachable.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Service, error) {
	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := DSN(dialect, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// One connection keeps :memory: databases and PRAGMAs consistent
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxIdleTime(time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Service{db: db, dialect: dialect}, nil
}

// DSN builds the driver connection string.
func DSN(dialect Dialect, cfg config.DatabaseConfig) (string, error) {
	if dialect == SQLite {
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite requires DB_PATH")
		}
		// Pragmas run on every new connection, in order. busy_timeout comes
		// first so the others wait out a concurrent writer.
		pragmas := url.Values{}
		pragmas.Add("_pragma", "busy_timeout(5000)")
		pragmas.Add("_pragma", "foreign_keys(1)")
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return "", fmt.Errorf("ensure data dir: %w", err)
			}
			pragmas.Add("_pragma", "journal_mode(WAL)")
		}
		return cfg.Path + "?" + pragmas.Encode(), nil
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.Database,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (s *Service) DB() *sql.DB {
	return s.db
}

func (s *Service) Dialect() Dialect {
	return s.dialect
}

// Health reports connectivity and pool statistics.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := make(map[string]string)
	stats["dialect"] = string(s.dialect)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)

	return stats
}

func (s *Service) Close() error {
	return s.db.Close()
}
