package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY, token_version INTEGER NOT NULL DEFAULT 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, token_version) VALUES (1, 0)`)
	require.NoError(t, err)
	return db
}

func tokenVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`SELECT token_version FROM users WHERE id = 1`).Scan(&v))
	return v
}

func bump(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET token_version = token_version + 1 WHERE id = 1`)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, bump)
	require.NoError(t, err)
	require.Equal(t, 1, tokenVersion(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, bump(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, tokenVersion(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, tokenVersion(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, bump(ctx, tx))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "begin tx")
}
