// Package rest exposes the session service as a JSON HTTP API on a chi
// router.
package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
	"github.com/dmitrijs2005/blogauth/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// SessionAuthority is the part of services.SessionService the handlers use.
type SessionAuthority interface {
	RegisterUser(ctx context.Context, in services.RegisterInput) (*models.Profile, error)
	AuthenticateUser(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	LogoutUser(ctx context.Context, userID int64) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	CreatePasswordResetToken(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

// Authorizer validates an Authorization header.
type Authorizer interface {
	Authorize(header string) (auth.Identity, error)
}

type Handler struct {
	sessions SessionAuthority
	gate     Authorizer
	logger   logging.Logger
}

func NewHandler(sessions SessionAuthority, gate Authorizer, l logging.Logger) *Handler {
	return &Handler{sessions: sessions, gate: gate, logger: l.With("module", "http")}
}

// NewRouter registers the routes and the middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/signin", h.signin)
		r.Post("/refresh", h.refresh)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Post("/signout", h.signout)
			r.Get("/me", h.me)
		})
	})

	return r
}
