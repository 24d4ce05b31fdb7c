package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/blogauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestManagersImplementInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var _ RepositoryManager = NewPostgresRepositoryManager(db)
	var _ RepositoryManager = NewMemoryRepositoryManager()
}

func TestPostgres_Factories(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)

	var _ users.Store = m.UserStore()
	assert.NotNil(t, m.UserStore())
}

func TestPostgres_Close(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectClose()

	m := NewPostgresRepositoryManager(db)
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db {
			return errors.New("unexpected db")
		}
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMemoryManager(t *testing.T) {
	m := NewMemoryRepositoryManager()

	require.NoError(t, m.RunMigrations(context.Background()))
	assert.Same(t, m.UserStore(), m.UserStore())
	assert.NoError(t, m.Close())
}
