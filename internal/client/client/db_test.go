package client

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_CreatesSessionTable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "authctl.db")

	db, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestInitDatabase_IsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "authctl.db")

	db, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }

	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	assert.ErrorIs(t, err, boom)
}
