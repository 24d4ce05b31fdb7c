package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/dbx"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), image, password_hash,
		token_version, status, last_login_at, created_at, updated_at
		FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	if email == "" && phone == "" {
		return nil, common.ErrNotFound
	}

	query := selectUser + `
		WHERE ($1 <> '' AND email = $1) OR ($2 <> '' AND phone = $2)
		ORDER BY id
		LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email, phone))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := selectUser + `
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, phone, image, password_hash, status)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)
		 RETURNING id, token_version, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Phone, user.Image, user.PasswordHash, string(user.Status),
	).Scan(&user.ID, &user.TokenVersion, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateStatusAndLogin(ctx context.Context, id int64, status models.Status, lastLoginAt time.Time) error {
	query :=
		`UPDATE users SET status = $2, last_login_at = $3, updated_at = now()
		 WHERE id = $1`

	return r.execOne(ctx, query, id, string(status), lastLoginAt)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	query :=
		`UPDATE users SET status = $2, updated_at = now()
		 WHERE id = $1`

	return r.execOne(ctx, query, id, string(status))
}

func (r *PostgresRepository) IncrementTokenVersion(ctx context.Context, id int64) (int64, error) {
	query :=
		`UPDATE users SET token_version = token_version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING token_version`

	var version int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return version, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query :=
		`UPDATE users SET password_hash = $2, updated_at = now()
		 WHERE id = $1`

	return r.execOne(ctx, query, id, hash)
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var status string
	var lastLogin sql.NullTime

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Image, &user.PasswordHash,
		&user.TokenVersion, &status, &lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Status = models.Status(status)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return user, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// PostgresStore is a Store backed by a connection pool.
type PostgresStore struct {
	*PostgresRepository
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{PostgresRepository: NewPostgresRepository(db), db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewPostgresRepository(tx))
	})
}
