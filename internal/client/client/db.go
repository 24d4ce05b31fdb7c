package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/blogauth/internal/client/migrations"
	"github.com/dmitrijs2005/blogauth/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

var gooseUpContext = goose.UpContext

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database file at path, creating its
// directory when needed, and migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local db migration error: %w", err)
	}
	return db, nil
}
