// Package session persists the CLI's signed-in session between runs.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogauth/internal/dbx"
)

// Session is the locally cached sign-in state. The zero value means no one
// is signed in.
type Session struct {
	Endpoint     string
	Login        string
	AccessToken  string
	RefreshToken string
}

// SignedIn reports whether s carries a refresh token.
func (s Session) SignedIn() bool {
	return s.RefreshToken != ""
}

type Repository interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// SQLiteRepository keeps a single session row.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx, `
		SELECT endpoint, login, access_token, refresh_token FROM session WHERE id = 1
	`).Scan(&s.Endpoint, &s.Login, &s.AccessToken, &s.RefreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, endpoint, login, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			endpoint = excluded.endpoint,
			login = excluded.login,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`, s.Endpoint, s.Login, s.AccessToken, s.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
