// Package services contains the server-side business logic. SessionService
// owns the sign-up, sign-in, refresh, sign-out and password reset flows and
// is shared by the gRPC and HTTP transports.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/config"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
	"github.com/dmitrijs2005/blogauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/blogauth/internal/server/throttle"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// TokenCodec signs and verifies tokens.
type TokenCodec interface {
	Sign(claims auth.Claims, ttl time.Duration) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// EmailSender delivers password reset links.
type EmailSender interface {
	Send(ctx context.Context, toEmail, resetLink, displayName string) error
}

// LoginThrottle counts failed sign-ins per identifier.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Image    string
	Password string
}

// LoginInput identifies the user by Email or, when Email is empty, by Phone.
type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

// LoginResult is returned by a successful sign-in.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Profile      models.Profile
}

type SessionService struct {
	store    users.Store
	hasher   PasswordHasher
	codec    TokenCodec
	sender   EmailSender
	throttle LoginThrottle
	log      logging.Logger
	now      func() time.Time

	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
	resetURL      string
	revokeOnReset bool

	// decoyHash is compared against when the identifier matches no user.
	decoyHash string
}

type Option func(*SessionService)

// WithClock sets the clock used for lastLoginAt.
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) { s.now = now }
}

func WithThrottle(t LoginThrottle) Option {
	return func(s *SessionService) { s.throttle = t }
}

func WithLogger(l logging.Logger) Option {
	return func(s *SessionService) { s.log = l }
}

func NewSessionService(store users.Store, hasher PasswordHasher, codec TokenCodec, sender EmailSender, cfg *config.Config, opts ...Option) (*SessionService, error) {
	s := &SessionService{
		store:         store,
		hasher:        hasher,
		codec:         codec,
		sender:        sender,
		throttle:      throttle.Nop{},
		log:           logging.Nop{},
		now:           time.Now,
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		resetTTL:      cfg.ResetTokenValidityDuration,
		resetURL:      cfg.ResetPasswordURL,
		revokeOnReset: cfg.RevokeOnPasswordReset,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("module", "session")

	decoy, err := newDecoyHash(hasher)
	if err != nil {
		return nil, err
	}
	s.decoyHash = decoy
	return s, nil
}

// RegisterUser creates an account. It does not sign the user in.
func (s *SessionService) RegisterUser(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return nil, fmt.Errorf("%w: email or phone is required", common.ErrInvalidInput)
	}

	_, err := s.store.FindByEmailOrPhone(ctx, email, phone)
	switch {
	case err == nil:
		return nil, common.ErrCredentialAlreadyExists
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		Image:        in.Image,
		PasswordHash: hash,
		Status:       models.StatusLoggedOut,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateCredential) {
			return nil, common.ErrCredentialAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	p := user.Profile()
	return &p, nil
}

// AuthenticateUser checks the credentials and issues an access and a
// refresh token. Unknown identifiers and wrong passwords fail alike.
func (s *SessionService) AuthenticateUser(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	phone := ""
	key := email
	if email == "" {
		phone = strings.TrimSpace(in.Phone)
		key = phone
	}
	if key == "" {
		return nil, common.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allow(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "login throttle unavailable", "error", err)
	}
	if !allowed {
		return nil, common.ErrTooManyAttempts
	}

	user, err := s.store.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(in.Password, s.decoyHash)
		s.recordFailure(ctx, key)
		return nil, common.ErrInvalidCredentials
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordFailure(ctx, key)
		return nil, common.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, key); err != nil {
		s.log.Warn(ctx, "login throttle reset failed", "error", err)
	}

	now := s.now().UTC()
	if err := s.store.UpdateStatusAndLogin(ctx, user.ID, models.StatusLoggedIn, now); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.Status = models.StatusLoggedIn
	user.LastLoginAt = &now

	access, err := s.codec.Sign(auth.Claims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		Type:         auth.TokenTypeAccess,
	}, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.codec.Sign(auth.Claims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
		Type:         auth.TokenTypeRefresh,
	}, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user signed in", "user_id", user.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, Profile: user.Profile()}, nil
}

// LogoutUser revokes every refresh token issued to the user so far.
// Access tokens already issued stay valid until they expire.
func (s *SessionService) LogoutUser(ctx context.Context, userID int64) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.IncrementTokenVersion(ctx, userID); err != nil {
			return err
		}
		return repo.UpdateStatus(ctx, userID, models.StatusLoggedOut)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info(ctx, "user signed out", "user_id", userID)
	return nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// refresh token is not rotated and may be used again.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return "", common.ErrRefreshTokenExpired
		}
		return "", common.ErrInvalidRefreshToken
	}
	if claims.Type != auth.TokenTypeRefresh {
		return "", common.ErrInvalidRefreshToken
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", common.ErrInvalidRefreshToken
	}

	return s.codec.Sign(auth.Claims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		Type:         auth.TokenTypeAccess,
	}, s.accessTTL)
}

// CreatePasswordResetToken mails a reset link to the owner of email. An
// unknown email succeeds without sending anything.
func (s *SessionService) CreatePasswordResetToken(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrInvalidInput)
	}

	user, err := s.store.FindByEmailOrPhone(ctx, email, "")
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := s.codec.Sign(auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   auth.TokenTypePasswordReset,
	}, s.resetTTL)
	if err != nil {
		return err
	}

	link, err := resetLink(s.resetURL, token)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, user.Email, link, user.Name); err != nil {
		s.log.Error(ctx, "password reset email failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %w", common.ErrEmailDeliveryFailed, err)
	}

	s.log.Info(ctx, "password reset email sent", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password for the user named by a reset token.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return common.ErrResetTokenExpired
		}
		return common.ErrInvalidResetToken
	}
	if claims.Type != auth.TokenTypePasswordReset {
		return common.ErrInvalidResetToken
	}

	if _, err := s.store.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if err := repo.UpdatePasswordHash(ctx, claims.UserID, hash); err != nil {
			return err
		}
		if s.revokeOnReset {
			_, err := repo.IncrementTokenVersion(ctx, claims.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info(ctx, "password reset", "user_id", claims.UserID)
	return nil
}

// Profile returns the public profile of a user.
func (s *SessionService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	p := user.Profile()
	return &p, nil
}

func (s *SessionService) recordFailure(ctx context.Context, key string) {
	if err := s.throttle.Fail(ctx, key); err != nil {
		s.log.Warn(ctx, "login throttle update failed", "error", err)
	}
}

// newDecoyHash hashes a random password so that a sign-in for an unknown
// user costs the same bcrypt comparison as a wrong password.
func newDecoyHash(hasher PasswordHasher) (string, error) {
	secret, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("decoy password: %w", err)
	}
	hash, err := hasher.Hash(secret)
	if err != nil {
		return "", fmt.Errorf("decoy hash: %w", err)
	}
	return hash, nil
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
