// Package dbx holds the small database/sql abstractions the repositories
// share: DBTX, satisfied by both *sql.DB and *sql.Tx, and WithTx.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB implements it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside a transaction started on db. The transaction is
// committed when fn returns nil and rolled back when fn fails or panics;
// a panic is re-raised after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE users SET ...")
//	    return err
//	})
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
