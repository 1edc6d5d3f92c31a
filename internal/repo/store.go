// Package repo opens the user store selected by DB_DRIVER.
package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/db"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/geocoder89/usershub/internal/repo/memory"
	"github.com/geocoder89/usershub/internal/repo/postgres"
	"github.com/geocoder89/usershub/internal/repo/sqlite"
)

type pingableRepo interface {
	user.Repository
	Ping(ctx context.Context) error
}

// Store is an opened backend. SQL is nil for the memory driver.
type Store struct {
	Users   user.Repository
	SQL     *sql.DB
	Dialect db.Dialect

	closers []func() error
}

// Open connects to the configured backend. metrics may be nil.
func Open(cfg config.Config, metrics *observability.Prom) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		sqlDB, err := db.OpenPostgresSQL(cfg.DBURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open postgres sql handle: %w", err)
		}

		return &Store{
			Users:   postgres.NewUsersRepo(pool, metrics),
			SQL:     sqlDB,
			Dialect: db.DialectPostgres,
			closers: []func() error{sqlDB.Close, func() error { pool.Close(); return nil }},
		}, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		return &Store{
			Users:   sqlite.NewUsersRepo(conn),
			SQL:     conn.DB,
			Dialect: db.DialectSQLite,
			closers: []func() error{conn.Close},
		}, nil

	case config.DriverMemory:
		return &Store{Users: memory.NewUsersRepo()}, nil
	}

	return nil, config.ErrUnknownDBDriver
}

// Migrate applies pending migrations. The memory driver has no schema.
func (s *Store) Migrate(ctx context.Context) error {
	if s.SQL == nil {
		return nil
	}
	return db.Migrate(ctx, s.SQL, s.Dialect)
}

// Reset drops every table and recreates the schema.
func (s *Store) Reset(ctx context.Context) error {
	if s.SQL == nil {
		s.Users = memory.NewUsersRepo()
		return nil
	}
	return db.Reset(ctx, s.SQL, s.Dialect)
}

func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.Users.(pingableRepo); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Store) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
