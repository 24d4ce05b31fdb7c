// Package common defines shared constants and sentinel errors used across
// the server, the transports and the CLI client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound            = errors.New("not found")
	ErrDuplicateCredential = errors.New("duplicate credential")

	// Service-level errors.
	ErrInternal                = errors.New("internal error")
	ErrInvalidInput            = errors.New("invalid input")
	ErrCredentialAlreadyExists = errors.New("credential already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailDeliveryFailed     = errors.New("email delivery failed")
	ErrTooManyAttempts         = errors.New("too many attempts")

	// Token codec errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors, distinct per token purpose so the caller can
	// choose between silent refresh and a new sign-in.
	ErrAccessTokenRequired = errors.New("access token required")
	ErrAccessTokenExpired  = errors.New("access token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrResetTokenExpired   = errors.New("reset token expired")
	ErrInvalidResetToken   = errors.New("invalid reset token")
)
