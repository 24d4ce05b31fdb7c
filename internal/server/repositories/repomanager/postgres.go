// Package repomanager provides the RepositoryManager implementations:
// PostgreSQL with goose migrations, and an in-memory fallback.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/blogauth/internal/server/migrations"
	"github.com/dmitrijs2005/blogauth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories over a
// single connection pool.
type PostgresRepositoryManager struct {
	db    *sql.DB
	store *users.PostgresStore
}

// Open connects to dsn through the pgx stdlib driver and checks the
// connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db, store: users.NewPostgresStore(db)}
}

func (m *PostgresRepositoryManager) UserStore() users.Store {
	return m.store
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
