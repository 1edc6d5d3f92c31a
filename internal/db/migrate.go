package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Dialect names a migration set and the goose dialect that runs it.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

func (d Dialect) dir() string {
	if d == DialectSQLite {
		return "migrations/sqlite"
	}
	return "migrations/postgres"
}

// OpenPostgresSQL opens a database/sql handle over pgx; goose needs *sql.DB.
func OpenPostgresSQL(dbURL string) (*sql.DB, error) {
	return sql.Open("pgx", dbURL)
}

// Migrate applies every pending migration for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if err := setup(dialect); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, dialect.dir()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

// Reset rolls back every migration and applies them again.
func Reset(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if err := setup(dialect); err != nil {
		return err
	}

	if err := goose.ResetContext(ctx, db, dialect.dir()); err != nil {
		return fmt.Errorf("migrate reset: %w", err)
	}

	if err := goose.UpContext(ctx, db, dialect.dir()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

func setup(dialect Dialect) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: slog.Default()})

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	panic(fmt.Sprintf(format, v...))
}
