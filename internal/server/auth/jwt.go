// Package auth signs and verifies the service's tokens, hashes passwords and
// implements the gate that authorizes every protected request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tells which operation a token may be consumed by.
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
)

// Claims is the claim set embedded in every token. Email is empty in
// refresh tokens and TokenVersion is zero in password reset tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID       int64     `json:"uid"`
	Email        string    `json:"email,omitempty"`
	TokenVersion int64     `json:"tv"`
	Type         TokenType `json:"typ"`
}

// ErrEmptySecret is returned when a codec has no signing secret. An empty
// HMAC key would let anyone mint valid tokens.
var ErrEmptySecret = errors.New("token signing secret is empty")

// TokenCodec signs and verifies HS256 tokens with a server-held secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for iat/exp.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec for secret. Callers should reject an empty
// secret with ValidateSecret first; a codec built without one refuses to
// sign and rejects every token.
func NewTokenCodec(secret []byte, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{secret: secret, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ValidateSecret reports whether secret can be used to sign tokens.
func ValidateSecret(secret []byte) error {
	if len(secret) == 0 {
		return ErrEmptySecret
	}
	return nil
}

// Sign issues a token carrying claims that expires ttl from now. The
// registered claims of the argument are overwritten.
func (c *TokenCodec) Sign(claims Claims, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// It fails with common.ErrTokenExpired once exp is reached and with
// common.ErrInvalidToken for anything else that is wrong with the token.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	if len(c.secret) == 0 {
		return nil, common.ErrInvalidToken
	}
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !parsed.Valid || claims.UserID <= 0 {
		return nil, common.ErrInvalidToken
	}

	switch claims.Type {
	case TokenTypeAccess, TokenTypeRefresh, TokenTypePasswordReset:
	default:
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
