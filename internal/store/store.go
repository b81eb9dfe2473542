package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore creates a new database store
func NewStore(driver, databaseURL string) (*Store, error) {
	if !supportedDriver(driver) {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	useDialectMapper(db, driver)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// NewStoreFromDB wraps an existing connection
func NewStoreFromDB(db *sqlx.DB, driver string) *Store {
	useDialectMapper(db, driver)
	return &Store{db: db, driver: driver}
}

// useDialectMapper lowercases db tags on Postgres, which folds unquoted
// identifiers such as userPhoneNumb to lower case in result columns.
func useDialectMapper(db *sqlx.DB, driver string) {
	if driver == DriverMySQL {
		return
	}
	db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the configured driver name
func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) isMySQL() bool {
	return s.driver == DriverMySQL
}

// q rewrites ? placeholders for the driver's bind style
func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func supportedDriver(driver string) bool {
	switch driver {
	case DriverPostgres, DriverPgx, DriverMySQL:
		return true
	}
	return false
}
