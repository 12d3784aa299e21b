package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

//go:embed schema_postgres.sql schema_sqlite.sql
var schemas embed.FS

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DBService represents a service that interacts with a database.
type DBService struct {
	DB     *sql.DB
	Driver string
	logger logging.Logger
}

// NewDBService opens the connection described by opts and pings it.
func NewDBService(ctx context.Context, opts Options, logger logging.Logger) (*DBService, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("missing database connection string")
	}
	if opts.Driver != DriverPostgres && opts.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// one writer; in-memory databases are per connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Database connection established", logging.Field{Key: logging.FieldDriver, Value: opts.Driver})

	return &DBService{DB: db, Driver: opts.Driver, logger: logger}, nil
}

// Health checks the health of the database connection by pinging the database.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	if err := s.DB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = s.Driver
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	return stats
}

func (s *DBService) Close() error {
	s.logger.Info("Closing database connection", logging.Field{Key: logging.FieldDriver, Value: s.Driver})
	return s.DB.Close()
}

// Migrate applies the embedded schema for the active driver. Every statement
// is idempotent.
func (s *DBService) Migrate(ctx context.Context) error {
	name := "schema_postgres.sql"
	if s.Driver == DriverSQLite {
		name = "schema_sqlite.sql"
	}
	schema, err := schemas.ReadFile(name)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", name, err)
	}

	for _, statement := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		if _, err := s.DB.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	s.logger.Info("Schema applied", logging.Field{Key: logging.FieldDriver, Value: s.Driver})
	return nil
}

// Rebind rewrites $1..$n placeholders to sqlite's numbered ?1..?n form, so a
// placeholder may repeat and still bind the same argument.
func (s *DBService) Rebind(query string) string {
	return Rebind(s.Driver, query)
}

func Rebind(driver, query string) string {
	if driver != DriverSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
				b.WriteByte(query[i])
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
