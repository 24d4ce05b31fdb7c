// Package users declares the credential store consumed by the session
// service and provides its PostgreSQL and in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/server/models"
)

// Repository reads and writes user credential records. Every mutation
// touches a single row; missing rows yield common.ErrNotFound.
type Repository interface {
	// FindByEmailOrPhone returns the first user whose email equals email or
	// whose phone equals phone. Empty arguments never match.
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)

	FindByID(ctx context.Context, id int64) (*models.User, error)

	// Create stores user and fills in its ID and timestamps. A taken email
	// or phone yields common.ErrDuplicateCredential.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	UpdateStatusAndLogin(ctx context.Context, id int64, status models.Status, lastLoginAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error

	// IncrementTokenVersion bumps the user's token version and returns the
	// new value.
	IncrementTokenVersion(ctx context.Context, id int64) (int64, error)

	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Store is a Repository that can group several writes into one unit.
type Store interface {
	Repository

	// WithinTx runs fn with a repository whose writes commit together.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
